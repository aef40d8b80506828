package prompt

import (
	"fmt"
	"strings"

	"github.com/roomstudio/visualizer/internal/catalog"
)

// RoomPrompt carries everything needed to assemble one room's generation
// prompt. Style, RoomDetail and Palette come from catalog lookups; nil/empty
// values degrade to humanized fallbacks instead of failing.
type RoomPrompt struct {
	RoomTypeID        string
	DesignStyleID     string
	Style             *catalog.StyleRecord
	RoomDetail        catalog.RoomDetail
	Palette           string
	ArchitectID       string
	DesignerID        string
	ColorWheelID      string
	AspectRatioID     string
	FlooringTypeID    string
	FloorBoardWidthID string
}

// aspectPhrases maps aspect ratio ids to the instruction embedded in the
// prompt's Format line.
var aspectPhrases = map[string]string{
	"1:1":  "Square aspect ratio (1:1)",
	"4:3":  "Standard landscape aspect ratio (4:3)",
	"16:9": "Wide cinematic aspect ratio (16:9)",
}

// boardWidthTemplates holds the fixed wording for wood flooring at each
// supported board width. Unknown widths produce no flooring section at all.
var boardWidthTemplates = map[string]string{
	"3in": "Flooring Specification: Wood flooring with narrow 3-inch boards, laid in a fine, detailed plank pattern.",
	"6in": "Flooring Specification: Wood flooring with standard 6-inch boards, giving a balanced, classic plank rhythm.",
	"9in": "Flooring Specification: Wood flooring with wide 9-inch boards, creating an open, contemporary plank layout.",
}

const closingLine = "High quality, detailed, architectural photography, 8k resolution."

// Humanize turns a slug into a display name by replacing separators with
// spaces and title-casing each word. It is the single fallback policy for
// every identifier without a catalog entry.
func Humanize(id string) string {
	replaced := strings.NewReplacer("-", " ", "_", " ").Replace(id)
	words := strings.Fields(replaced)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// AspectPhrase returns the Format-line instruction for an aspect ratio id.
// Ids outside the known table still yield a readable instruction.
func AspectPhrase(id string) string {
	if phrase, ok := aspectPhrases[id]; ok {
		return phrase
	}
	return "Aspect ratio " + id
}

// flooringLine returns the flooring section line, or "" when the section must
// be omitted. Wood flooring requires a known board width; any other non-empty
// type gets the generic specification line.
func flooringLine(typeID, widthID string) string {
	if typeID == "" {
		return ""
	}
	if typeID == "wood" {
		return boardWidthTemplates[widthID]
	}
	return fmt.Sprintf("Flooring Specification: %s flooring", Humanize(typeID))
}

// Build assembles the generation prompt. Pure and deterministic: the same
// inputs always produce byte-identical output, since the prompt is logged and
// returned to callers for debugging.
func Build(rp RoomPrompt) string {
	styleName := Humanize(rp.DesignStyleID)
	mood, note := "", ""
	if rp.Style != nil {
		styleName = rp.Style.Name
		mood = rp.Style.Mood
		note = rp.Style.DesignerNote
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Generate a photorealistic %s interior.\n", Humanize(rp.RoomTypeID))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Design Style: %s\n", styleName)
	fmt.Fprintf(&b, "Mood: %s\n", mood)
	fmt.Fprintf(&b, "Designer Note: %s\n", note)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Architectural Context:\n%s\n", rp.RoomDetail.ArchitecturalElements)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Room Features:\n%s\n", rp.RoomDetail.RoomSpecifics)

	if line := flooringLine(rp.FlooringTypeID, rp.FloorBoardWidthID); line != "" {
		b.WriteString("\n")
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "Color Palette (%s Scheme):\n%s\n", Humanize(rp.ColorWheelID), rp.Palette)
	b.WriteString("\n")
	b.WriteString("References:\n")
	fmt.Fprintf(&b, "Architect: %s\n", Humanize(rp.ArchitectID))
	fmt.Fprintf(&b, "Designer: %s\n", Humanize(rp.DesignerID))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Format: %s\n", AspectPhrase(rp.AspectRatioID))
	b.WriteString(closingLine)

	return b.String()
}
