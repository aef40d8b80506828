package catalog

import (
	"regexp"
	"slices"
	"sort"
	"strings"
)

// StyleRecord holds the design metadata for one style. Immutable once loaded.
type StyleRecord struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Mood         string `json:"mood"`
	Undertone    string `json:"undertone"`
	DesignerNote string `json:"designerNote"`
}

// Person is an architect or interior designer associated with one or more styles.
type Person struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	StyleIDs []string `json:"styleIds"`
}

// Option is a selectable value exposed to clients.
type Option struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// RoomDetail is the style-specific architectural text for one room type.
// Fields are empty when the catalog has no entry; a miss is never an error.
type RoomDetail struct {
	ArchitecturalElements string
	RoomSpecifics         string
}

// Catalog is the read-only design-metadata store. It is built once at startup
// and injected into consumers.
type Catalog struct {
	styles     []StyleRecord
	stylesByID map[string]int
	architects []Person
	designers  []Person
	roomRows   []roomRow
	colorRows  []colorRow
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify converts a display name into its stable lowercase hyphenated id.
func Slugify(s string) string {
	return strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// roomColumns maps room type ids to the room-specific text in the source table.
var roomColumns = map[string]func(roomRow) string{
	"living-room": func(r roomRow) string { return r.LivingRoom },
	"dining-room": func(r roomRow) string { return r.DiningRoom },
	"kitchen":     func(r roomRow) string { return r.Kitchen },
	"bathroom":    func(r roomRow) string { return r.Bathroom },
}

// StyleByID looks up a style record by slug.
func (c *Catalog) StyleByID(id string) (*StyleRecord, bool) {
	i, ok := c.stylesByID[id]
	if !ok {
		return nil, false
	}
	return &c.styles[i], true
}

// RoomDetail returns the architectural text for a (style, room type) pair.
func (c *Catalog) RoomDetail(styleID, roomTypeID string) RoomDetail {
	for _, row := range c.roomRows {
		if Slugify(row.DesignStyle) != styleID {
			continue
		}
		detail := RoomDetail{ArchitecturalElements: row.ArchitecturalElements}
		if col, ok := roomColumns[roomTypeID]; ok {
			detail.RoomSpecifics = col(row)
		}
		return detail
	}
	return RoomDetail{}
}

// ColorPalette returns the palette text for a (style, intensity) pair as
// "Category: value; ..." in source row order. Empty on any miss.
func (c *Catalog) ColorPalette(styleID, intensityID string) string {
	var parts []string
	for _, row := range c.colorRows {
		if Slugify(row.DesignStyle) != styleID {
			continue
		}
		var val string
		switch intensityID {
		case "light":
			val = row.Light
		case "medium":
			val = row.Medium
		case "dark":
			val = row.Dark
		}
		if val != "" {
			parts = append(parts, row.Category+": "+val)
		}
	}
	return strings.Join(parts, "; ")
}

// Styles returns all style records in catalog order.
func (c *Catalog) Styles() []StyleRecord {
	return c.styles
}

// Architects returns architects, optionally filtered to one style.
func (c *Catalog) Architects(styleID string) []Person {
	return filterPeople(c.architects, styleID)
}

// Designers returns interior designers, optionally filtered to one style.
func (c *Catalog) Designers(styleID string) []Person {
	return filterPeople(c.designers, styleID)
}

func filterPeople(people []Person, styleID string) []Person {
	if styleID == "" {
		return people
	}
	out := make([]Person, 0, len(people))
	for _, p := range people {
		for _, id := range p.StyleIDs {
			if id == styleID {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// RoomTypes returns the selectable room types.
func (c *Catalog) RoomTypes() []Option {
	return []Option{
		{ID: "living-room", Name: "Living Room"},
		{ID: "dining-room", Name: "Dining Room"},
		{ID: "kitchen", Name: "Kitchen"},
		{ID: "bathroom", Name: "Bathroom"},
		{ID: "bedroom", Name: "Bedroom"},
	}
}

// ColorWheelOptions returns the palette intensity choices.
func (c *Catalog) ColorWheelOptions() []Option {
	return []Option{
		{ID: "light", Name: "Light"},
		{ID: "medium", Name: "Medium"},
		{ID: "dark", Name: "Dark"},
	}
}

// AspectRatios returns the supported output aspect ratios.
func (c *Catalog) AspectRatios() []Option {
	return []Option{
		{ID: "1:1", Name: "1:1", Description: "Square"},
		{ID: "4:3", Name: "4:3", Description: "Standard"},
		{ID: "16:9", Name: "16:9", Description: "Widescreen"},
	}
}

// ImageQualityOptions returns the generation quality tiers.
func (c *Catalog) ImageQualityOptions() []Option {
	return []Option{
		{ID: "1k", Name: "1K", Description: "Fastest generation"},
		{ID: "2k", Name: "2K", Description: "Balanced detail"},
		{ID: "4k", Name: "4K", Description: "Maximum detail"},
	}
}

// build derives styles and people from the raw rows.
func (c *Catalog) build() {
	c.stylesByID = make(map[string]int)
	architects := make(map[string]*Person)
	designers := make(map[string]*Person)

	for _, row := range c.roomRows {
		styleName := strings.TrimSpace(row.DesignStyle)
		if styleName == "" {
			continue
		}
		styleID := Slugify(styleName)
		if _, seen := c.stylesByID[styleID]; !seen {
			rec := StyleRecord{ID: styleID, Name: styleName}
			// Mood, undertone and designer note live in the palette table;
			// the first matching row wins.
			for _, cr := range c.colorRows {
				if cr.DesignStyle == styleName {
					rec.Mood = cr.Mood
					rec.Undertone = cr.Undertone
					rec.DesignerNote = cr.DesignerNote
					break
				}
			}
			c.stylesByID[styleID] = len(c.styles)
			c.styles = append(c.styles, rec)
		}

		collectPeople(architects, row.Architects, styleID)
		collectPeople(designers, row.Designers, styleID)
	}

	c.architects = flattenPeople(architects)
	c.designers = flattenPeople(designers)
}

func collectPeople(into map[string]*Person, raw, styleID string) {
	for _, name := range strings.Split(raw, ";") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		id := Slugify(name)
		p, ok := into[id]
		if !ok {
			p = &Person{ID: id, Name: name}
			into[id] = p
		}
		if !slices.Contains(p.StyleIDs, styleID) {
			p.StyleIDs = append(p.StyleIDs, styleID)
		}
	}
}

func flattenPeople(m map[string]*Person) []Person {
	out := make([]Person, 0, len(m))
	for _, p := range m {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
