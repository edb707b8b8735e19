package dataset

import (
	"encoding/json"
	"strings"

	"catalog-api/internal/dto"
)

const lorem = "lorem ipsum dolor sit amet consectetur adipiscing elit sed do eiusmod tempor incididunt ut labore et dolore magna aliqua " +
	"ut enim ad minim veniam quis nostrud exercitation ullamco laboris nisi ut aliquip ex ea commodo consequat duis aute irure " +
	"dolor in reprehenderit in voluptate velit esse cillum dolore eu fugiat nulla pariatur excepteur sint occaecat cupidatat non " +
	"proident sunt in culpa qui officia deserunt mollit anim id est laborum "

const descriptionPrefix = "Autogenerated description. "

// column widths of item.name and item.description
const (
	maxName        = 128
	maxDescription = 5000
)

// padText returns exactly n bytes of ASCII filler starting with prefix
func padText(prefix string, n int) string {
	if n <= 0 {
		return ""
	}
	unit := lorem
	if p := strings.TrimSpace(prefix); p != "" {
		unit = p + " " + lorem
	}
	text := strings.Repeat(unit, n/len(unit)+1)
	return text[:n]
}

// Request is the item create/update body for a generated row
func (it Item) Request() dto.ItemRequest {
	price := dto.NewMoney(it.Price)
	stock := it.Stock
	categoryID := it.CategoryID
	return dto.ItemRequest{
		SKU:        it.SKU,
		Name:       it.Name,
		Price:      &price,
		Stock:      &stock,
		CategoryID: &categoryID,
	}
}

// SmallPayload pads the name up to its column width and, when that is not
// enough, spills the rest into the description until the body reaches target bytes
func SmallPayload(it Item, target int) ([]byte, error) {
	req := it.Request()
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	deficit := target - len(body)
	if deficit <= 0 {
		return body, nil
	}

	pad := min(deficit, max(0, maxName-len(req.Name)))
	req.Name += padText("", pad)
	if pad == deficit {
		return json.Marshal(req)
	}
	return withDescription(req, "", target)
}

// LargePayload adds a description sized so the encoded body reaches target bytes.
// The description never exceeds the column width, so the body may fall short.
func LargePayload(it Item, target int) ([]byte, error) {
	return withDescription(it.Request(), descriptionPrefix, target)
}

func withDescription(req dto.ItemRequest, prefix string, target int) ([]byte, error) {
	empty := ""
	req.Description = &empty

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	description := padText(prefix, min(target-len(body), maxDescription))
	req.Description = &description
	return json.Marshal(req)
}
