package mcpserver

// ImportFormatContract describes the legacy record JSON shape that import
// batches must follow.
const ImportFormatContract = `# Jera Legacy Import Format Contract

Import batches are JSON documents, either a bare array of records or an
object with a ` + "`records`" + ` field:

` + "```" + `json
{
  "records": [
    {
      "id": "recipe-smoked-salmon-chowder",
      "title": "Smoked Salmon Chowder",
      "description": "A rich Pacific Northwest classic.",
      "ingredients": ["2 cups diced potatoes", "1/2 lb smoked salmon"],
      "instructions": ["Simmer potatoes until tender.", "Fold in salmon."],
      "category": "Soup",
      "cuisine": "Pacific Northwest",
      "keywords": ["chowder", "seafood"],
      "author": "Jane Doe",
      "servings": "4",
      "prep_time": "20 min",
      "url": "https://example.com/chowder"
    }
  ]
}
` + "```" + `

## Rules

1. **` + "`id`" + ` and ` + "`title`" + ` are required.** Records missing either count as
   failed and the batch continues.
2. **Ids are stable.** Re-importing a record whose id already exists skips it;
   the skipped counter increments and nothing is duplicated.
3. **Ingredients** are free-form lines. A leading quantity and unit
   ("2 cups ...", "1/2 lb ...") are parsed onto the HAS_INGREDIENT edge; the
   remainder names the ingredient node, which is shared across recipes.
4. **Category, cuisine, and keywords** each become TAG nodes linked with
   HAS_TAG edges. Tag nodes are shared; the edge records which field the tag
   came from.
5. **All other fields are optional** and land verbatim in the recipe's
   property document, where full-text search picks them up.
6. Batch files dropped into the import directory must use the ` + "`.json`" + `
   extension; processed files are moved to ` + "`done/`" + `.
`
