package accounts

import (
	"fmt"
	"strings"
)

// FuzzySource lets sahilm/fuzzy search accounts by address and
// description at once.
type FuzzySource []AccDesc

func (fs FuzzySource) Len() int {
	return len(fs)
}

func (fs FuzzySource) String(i int) string {
	return fmt.Sprintf("%s_%s", fs[i].Address, strings.ReplaceAll(fs[i].Desc, " ", "_"))
}
