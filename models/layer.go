package models

import (
	"database/sql/driver"
	"strings"

	"github.com/go-playground/validator"
)

type LayerKind string

const (
	LayerDress     LayerKind = "dress"
	LayerTop       LayerKind = "top"
	LayerBottom    LayerKind = "bottom"
	LayerOuterwear LayerKind = "outerwear"
	LayerShoes     LayerKind = "shoes"
	LayerBag       LayerKind = "bag"
	LayerAccessory LayerKind = "accessory"
)

// AllLayerKinds is the fetch order used when fanning out reads.
var AllLayerKinds = []LayerKind{
	LayerDress, LayerTop, LayerBottom, LayerOuterwear, LayerShoes, LayerBag, LayerAccessory,
}

// DisplayOrder is the order slots are shown in: base, outerwear, footwear, bag, accessory.
var DisplayOrder = []LayerKind{
	LayerDress, LayerTop, LayerBottom, LayerOuterwear, LayerShoes, LayerBag, LayerAccessory,
}

func (l *LayerKind) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*l = LayerKind(v)
	case []byte:
		*l = LayerKind(string(v))
	}
	return nil
}

func (l LayerKind) Value() (driver.Value, error) {
	return string(l), nil
}

func (l LayerKind) String() string {
	return string(l)
}

// IsBase reports whether the kind takes part in base-garment exclusivity.
func (l LayerKind) IsBase() bool {
	switch l {
	case LayerDress, LayerTop, LayerBottom, LayerOuterwear, LayerShoes:
		return true
	}
	return false
}

// Label is the plural, human readable name used in messages.
func (l LayerKind) Label() string {
	switch l {
	case LayerDress:
		return "dresses"
	case LayerTop:
		return "tops"
	case LayerBottom:
		return "bottoms"
	case LayerShoes:
		return "shoes"
	case LayerBag:
		return "bags"
	case LayerAccessory:
		return "accessories"
	}
	return string(l)
}

func ParseLayerKind(value string) (LayerKind, bool) {
	kind := LayerKind(strings.ToLower(strings.TrimSpace(value)))
	for _, k := range AllLayerKinds {
		if k == kind {
			return k, true
		}
	}
	return "", false
}

func ValidateLayerKind(fl validator.FieldLevel) bool {
	_, ok := ParseLayerKind(fl.Field().String())
	return ok
}
