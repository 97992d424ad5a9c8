package bag

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Separator joins the product and option segments of a line key.
const Separator = "_"

var ErrMalformedKey = errors.New("malformed line key")

// LineKey identifies one bag line: a product and, for pack-priced products, an option.
type LineKey struct {
	ProductID int64
	OptionID  *int64
}

func (k LineKey) HasOption() bool { return k.OptionID != nil }

func (k LineKey) String() string { return Encode(k.ProductID, k.OptionID) }

// Encode returns "pid" or "pid_opt".
func Encode(productID int64, optionID *int64) string {
	if optionID == nil {
		return strconv.FormatInt(productID, 10)
	}
	return strconv.FormatInt(productID, 10) + Separator + strconv.FormatInt(*optionID, 10)
}

// ParseLineKey decodes a key produced by Encode. Keys with more than one separator
// or with a segment that is not a canonical positive integer ("5", not "05" or
// "+5") yield ErrMalformedKey, so each line has exactly one key.
func ParseLineKey(key string) (LineKey, error) {
	parts := strings.Split(key, Separator)
	if len(parts) > 2 {
		return LineKey{}, fmt.Errorf("%w: %q has %d segments", ErrMalformedKey, key, len(parts))
	}

	productID, err := parseID(parts[0])
	if err != nil {
		return LineKey{}, fmt.Errorf("%w: %q product: %v", ErrMalformedKey, key, err)
	}
	lk := LineKey{ProductID: productID}

	if len(parts) == 2 {
		optionID, err := parseID(parts[1])
		if err != nil {
			return LineKey{}, fmt.Errorf("%w: %q option: %v", ErrMalformedKey, key, err)
		}
		lk.OptionID = &optionID
	}
	return lk, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("id must be positive, got %d", id)
	}
	if strconv.FormatInt(id, 10) != s {
		return 0, fmt.Errorf("id %q is not in canonical form", s)
	}
	return id, nil
}
