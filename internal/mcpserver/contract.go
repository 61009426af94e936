package mcpserver

// RecordFormatURI is the resource URI of RecordFormat.
const RecordFormatURI = "partsdb://record-format"

// RecordFormat describes the JSON record written for every saved part.
const RecordFormat = `# partsdb Record Format

Each saved part is one JSON file in the database directory, named after the
part number with every character outside ` + "`A-Z a-z 0-9 - _ . ( )`" + ` and space removed,
plus ` + "`.json`" + `. Saving the same part number again replaces the file.

## Fields (in file order)

| Key | Type | Default |
|---|---|---|
| partNum | string | required, manufacturer part number |
| category | string | "uncategorized" |
| manufacturer | string | "unknown" |
| description | string or null | null |
| imageUrl | string or null | null |
| datasheetUrl | string or null | null |
| productUrl | string or null | null |
| count | integer | 0, on-hand quantity |

## Example

` + "```" + `json
{
    "partNum": "NE555P",
    "category": "Timers & Support Products",
    "manufacturer": "Texas Instruments",
    "description": "Timers & Support Products Single Precision Timer",
    "imageUrl": null,
    "datasheetUrl": "https://www.ti.com/lit/ds/symlink/ne555.pdf",
    "productUrl": null,
    "count": 12
}
` + "```" + `

There is no version field. Records are independent; nothing indexes them.
`
