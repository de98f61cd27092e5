package mcpserver

// IdentifierFormat describes how catalog filenames encode logo metadata.
const IdentifierFormat = `# Logoteca Identifier Format

Every logo in the catalog is an image file whose name encodes its metadata:

    Name|Color|Source|Type|Year.ext

## Fields

1. **Name** - CamelCase words; a space is inserted before each inner capital
   (` + "`BarcelonaArchives`" + ` becomes "Barcelona Archives").
2. **Color** - dominant color, matched case-insensitively (` + "`Blue`" + `).
3. **Source** - where the logo comes from. Values starting with ` + "`www`" + ` are
   served as ` + "`https://`" + ` URLs.
4. **Type** - typography: ` + "`Serif`" + ` or ` + "`SansSerif`" + ` (normalised to
   ` + "`serif`" + ` / ` + "`sans-serif`" + `).
5. **Year** - integer year; non-numeric values default to 2000.

All five fields are required. A name with the wrong number of fields, or an
empty field, is shown as "Invalid Logo".

## Searching

- The search term matches names case-insensitively as a substring.
- A numeric term also matches every logo from the same decade:
  ` + "`1925`" + ` matches 1920-1929, and the three-digit ` + "`192`" + ` does too.
- Color and type filters are exact and combine with the term using AND.

## Example

    BarcelonaArchives|Blue|www.arxiu.barcelona|Serif|1922.png
`
