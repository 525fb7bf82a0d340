// Package assetname maps card display names, as shown in battle logs and
// deck lists, to the image files a crawl stores.
package assetname

import (
	"regexp"
	"strings"
)

const evoPrefix = "evo "

// ASCII whitespace plus Unicode space separators such as NBSP
var whitespace = regexp.MustCompile(`[\s\p{Z}]+`)

// Mapper converts display names using a given evolution suffix and extension
type Mapper struct {
	EvolutionSuffix string
	Extension       string
}

// Default matches the files written by a crawl with default settings
var Default = Mapper{EvolutionSuffix: "-ev1", Extension: ".png"}

// Identifier returns the stored name without extension:
// lower-cased, a leading "evo " replaced by the evolution suffix, dots
// dropped and whitespace runs turned into dashes.
func (m Mapper) Identifier(displayName string) string {
	name := strings.ToLower(displayName)

	evolved := strings.HasPrefix(name, evoPrefix)
	if evolved {
		name = strings.TrimPrefix(name, evoPrefix)
	}

	name = strings.ReplaceAll(name, ".", "")
	name = whitespace.ReplaceAllString(name, "-")

	if evolved {
		name += m.EvolutionSuffix
	}
	return name
}

// FileName returns the image file name for displayName
func (m Mapper) FileName(displayName string) string {
	return m.Identifier(displayName) + m.Extension
}

// FileName maps displayName with the default mapper
func FileName(displayName string) string {
	return Default.FileName(displayName)
}
