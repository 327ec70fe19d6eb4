package analytics

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tknakamura/tokyo-weekender-seo-dashboard/internal/domain"
)

// ErrUnknownIntent is returned for intent filter names outside the six flags.
var ErrUnknownIntent = errors.New("unknown intent filter")

// intentPredicates maps each intent name to its flag accessor. An explicit
// table instead of reflection keeps unsupported names a hard error rather than
// a silent empty match.
var intentPredicates = map[string]func(domain.KeywordRecord) bool{
	"navigational":  func(r domain.KeywordRecord) bool { return r.Navigational },
	"informational": func(r domain.KeywordRecord) bool { return r.Informational },
	"commercial":    func(r domain.KeywordRecord) bool { return r.Commercial },
	"transactional": func(r domain.KeywordRecord) bool { return r.Transactional },
	"branded":       func(r domain.KeywordRecord) bool { return r.Branded },
	"local":         func(r domain.KeywordRecord) bool { return r.Local },
}

// IntentPredicate resolves an intent filter name, case-insensitively, to the
// matching flag predicate.
func IntentPredicate(name string) (func(domain.KeywordRecord) bool, error) {
	pred, ok := intentPredicates[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownIntent, name)
	}
	return pred, nil
}
