package deployments

import (
	"fmt"
	"strings"
)

type FuzzySource []Record

func (fs FuzzySource) Len() int {
	return len(fs)
}

func (fs FuzzySource) String(i int) string {
	return fmt.Sprintf("%s_%s", strings.ReplaceAll(fs[i].Name, " ", "_"), fs[i].Address)
}
