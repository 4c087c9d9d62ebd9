package goap

import (
	"fmt"
	"strings"
)

// DescribeState lists the atoms ws cares about, in bit order, separated by
// commas. True atoms are upper case and false atoms lower case. Atoms that
// are don't-care are omitted.
func (ap *ActionPlanner) DescribeState(ws WorldState) string {
	var b strings.Builder
	for i := 0; i < ap.numAtoms; i++ {
		if !ws.Cares(i) {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		if ws.Get(i) {
			b.WriteString(strings.ToUpper(ap.atoms[i]))
		} else {
			b.WriteString(strings.ToLower(ap.atoms[i]))
		}
	}
	return b.String()
}

// Describe lists every action with its preconditions ("atom==v") and its
// effects ("atom:=v"), one per line. For debugging only; the format is not
// stable.
func (ap *ActionPlanner) Describe() string {
	var b strings.Builder
	for a := 0; a < ap.numActions; a++ {
		fmt.Fprintf(&b, "%s:\n", ap.actions[a])
		pre, post := ap.pre[a], ap.post[a]
		for i := 0; i < ap.numAtoms; i++ {
			if pre.Cares(i) {
				fmt.Fprintf(&b, "  %s==%d\n", ap.atoms[i], boolToInt(pre.Get(i)))
			}
		}
		for i := 0; i < ap.numAtoms; i++ {
			if post.Cares(i) {
				fmt.Fprintf(&b, "  %s:=%d\n", ap.atoms[i], boolToInt(post.Get(i)))
			}
		}
	}
	return b.String()
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
