package helper

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// NewDocumentID returns a fresh identifier used to namespace one
// ingested document in the vector index.
func NewDocumentID() string {
	return "doc-" + strings.Split(uuid.NewString(), "-")[0]
}

// pretty print
func PrettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Warn().Msg("Error pretty printing")
		return
	}
	fmt.Println(string(b))
}
