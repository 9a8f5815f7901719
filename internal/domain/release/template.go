package release

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ArtifactExtension is the fixed extension of distributable firmware binaries.
const ArtifactExtension = ".bin"

// Filename template placeholders.
const (
	placeholderVersion   = "%version%"
	placeholderDate      = "%date%"
	placeholderTimestamp = "%timestamp%"
	placeholderRandom    = "%random%"
)

// randomDigits is the width of the %random% disambiguator.
const randomDigits = 6

// TemplateVars carries the substitution values for one rendered filename.
type TemplateVars struct {
	// Version is the version string published this run.
	Version string
	// Now is the run-scoped timestamp shared by all assets of the run.
	Now time.Time
	// Random is a numeric disambiguator, rendered as six digits.
	Random int
}

// RenderFilename substitutes the recognized placeholders in the template and
// appends the artifact extension unless the template already produced one.
func RenderFilename(template string, vars TemplateVars) string {
	replacer := strings.NewReplacer(
		placeholderVersion, vars.Version,
		placeholderDate, vars.Now.Format("20060102"),
		placeholderTimestamp, strconv.FormatInt(vars.Now.Unix(), 10),
		placeholderRandom, fmt.Sprintf("%0*d", randomDigits, vars.Random),
	)

	name := replacer.Replace(template)
	if !strings.HasSuffix(name, ArtifactExtension) {
		name += ArtifactExtension
	}

	return name
}
