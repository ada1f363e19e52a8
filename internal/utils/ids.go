package utils

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// IDGenerator produces record identifiers in the historical
// <prefix>_<unix-millis>_<suffix> shape so new ids sort next to the ones
// imported from legacy data.
type IDGenerator struct {
}

func NewIDGenerator() *IDGenerator {
	return &IDGenerator{}
}

// Generate returns a fresh identifier with the given prefix, e.g.
// "cobro_1756713600000_1a2b3c4d".
func (g *IDGenerator) Generate(prefix string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return prefix + "_" + strconv.FormatInt(time.Now().UnixMilli(), 10) + "_" + suffix
}
