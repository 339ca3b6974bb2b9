package entity

import (
	"fmt"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

type Region string

const (
	RegionPT Region = "PT"
	RegionBR Region = "BR"
	RegionUS Region = "US"
	RegionES Region = "ES"
	RegionFR Region = "FR"
	RegionGB Region = "GB"
)

type regionLocale struct {
	language language.Tag
	currency currency.Unit
}

var regionOrder = []Region{RegionPT, RegionBR, RegionUS, RegionES, RegionFR, RegionGB}

var regionLocales = map[Region]regionLocale{
	RegionPT: {language: language.MustParse("pt-PT"), currency: currency.EUR},
	RegionBR: {language: language.MustParse("pt-BR"), currency: currency.BRL},
	RegionUS: {language: language.MustParse("en-US"), currency: currency.USD},
	RegionES: {language: language.MustParse("es-ES"), currency: currency.EUR},
	RegionFR: {language: language.MustParse("fr-FR"), currency: currency.EUR},
	RegionGB: {language: language.MustParse("en-GB"), currency: currency.GBP},
}

// AllRegions returns the supported regions in display order.
func AllRegions() []Region {
	out := make([]Region, len(regionOrder))
	copy(out, regionOrder)
	return out
}

func ParseRegion(raw string) (Region, error) {
	region := Region(strings.ToUpper(strings.TrimSpace(raw)))
	if !region.Valid() {
		return "", fmt.Errorf("unsupported region %q", raw)
	}
	return region, nil
}

func (r Region) Valid() bool {
	_, ok := regionLocales[r]
	return ok
}

// Language is the locale the i18n layer switches to when this region is active.
func (r Region) Language() language.Tag {
	return regionLocales[r].language
}

func (r Region) Currency() currency.Unit {
	return regionLocales[r].currency
}
