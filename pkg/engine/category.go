package engine

import (
	"fmt"
	"strings"
)

// Category groups rules and findings. The string values are used as grouping
// keys in every report table and must not change.
type Category string

const (
	CategoryLayer2        Category = "Layer 2"
	CategoryAccessControl Category = "Access Control"
	CategoryAAA           Category = "AAA"
	CategoryLogging       Category = "Logging"
	CategoryCrypto        Category = "Crypto"
	CategoryResilience    Category = "Resilience"
	CategoryConfigMgmt    Category = "Config Mgmt"
)

var categoryOrder = []Category{
	CategoryLayer2,
	CategoryAccessControl,
	CategoryAAA,
	CategoryLogging,
	CategoryCrypto,
	CategoryResilience,
	CategoryConfigMgmt,
}

// Categories returns the seven categories in report order.
func Categories() []Category {
	out := make([]Category, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

// Index returns the position of c in report order, or -1.
func (c Category) Index() int {
	for i, known := range categoryOrder {
		if known == c {
			return i
		}
	}
	return -1
}

func (c Category) Valid() bool {
	return c.Index() >= 0
}

// ParseCategory matches s against the fixed categories, ignoring case.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range categoryOrder {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}
