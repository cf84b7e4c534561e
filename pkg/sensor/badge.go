package sensor

import (
	"encoding/base64"
	"fmt"
	"strings"

	"luastrack/pkg/types"
)

// Line colours as used on the official network map.
const (
	greenLineColor = "#00A65E"
	redLineColor   = "#D02C2F"
	neutralColor   = "#4682B4"
)

// GenerateTramBadge creates a small base64-encoded SVG badge for an entity:
// a tram body in the line colour with a direction arrow. Exposed to the host
// as the entity_picture attribute. Direction may be empty (status sensors).
func GenerateTramBadge(line types.Line, direction string) string {
	var color string
	switch line {
	case types.LineGreen:
		color = greenLineColor
	case types.LineRed:
		color = redLineColor
	default:
		color = neutralColor
	}

	var arrow string
	switch strings.ToLower(direction) {
	case "inbound":
		arrow = "←"
	case "outbound":
		arrow = "→"
	default:
		arrow = "•"
	}

	svg := fmt.Sprintf(`<svg width="96" height="48" xmlns="http://www.w3.org/2000/svg">
  <rect width="96" height="48" fill="#f8f9fa" stroke="#dee2e6" stroke-width="1" rx="6"/>
  <rect x="10" y="14" width="48" height="20" fill="%s" rx="6"/>
  <rect x="14" y="18" width="8" height="6" fill="#cfe8ff" rx="1"/>
  <rect x="24" y="18" width="8" height="6" fill="#cfe8ff" rx="1"/>
  <rect x="34" y="18" width="8" height="6" fill="#cfe8ff" rx="1"/>
  <rect x="44" y="18" width="8" height="6" fill="#cfe8ff" rx="1"/>
  <circle cx="20" cy="37" r="3" fill="#2F4F4F"/>
  <circle cx="48" cy="37" r="3" fill="#2F4F4F"/>
  <text x="68" y="31" font-family="Arial, sans-serif" font-size="18" font-weight="bold" fill="%s">%s</text>
</svg>`, color, color, arrow)

	encoded := base64.StdEncoding.EncodeToString([]byte(svg))
	return "data:image/svg+xml;base64," + encoded
}
