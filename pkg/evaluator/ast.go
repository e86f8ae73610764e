// Package evaluator implements the tree-walking evaluation of a SON
// JSON AST: message dispatch, block invocation with local and
// non-local return, and the closed primitive table.
package evaluator

import "strings"

// nodeKind classifies one AST array node according to the grammar's
// disambiguation rules, decided without re-walking the node more than
// once.
type nodeKind int

const (
	kindReturn nodeKind = iota
	kindDefine
	kindAssign
	kindCascade
	kindBlockLiteral
	kindMalformedBlock
	kindKeywordSend
	kindBinarySend
	kindUnarySend
	kindSequence
)

const (
	selReturn   = "^"
	selDefine   = "define:args:body:"
	selCascade  = "cascade:"
	selBlockTag = "=>:"
)

// classify inspects a non-empty array node's elements and decides which
// grammar clause applies. It does not evaluate anything.
func classify(elems []any) nodeKind {
	if len(elems) == 0 {
		return kindSequence
	}

	if len(elems) == 2 {
		if s, ok := elems[0].(string); ok && s == selReturn {
			return kindReturn
		}
	}

	if len(elems) == 4 {
		if s, ok := elems[0].(string); ok && s == selDefine {
			return kindDefine
		}
	}

	if len(elems) == 2 {
		if s, ok := elems[0].(string); ok {
			// "=>:" impersonating an assignment target (e.g. ["=>:", 5])
			// must never be treated as a user message — reject outright
			// rather than silently binding a variable named "=>:".
			if s == selBlockTag {
				return kindMalformedBlock
			}
			if isAssignSelector(s) {
				return kindAssign
			}
		}
	}

	if len(elems) == 3 {
		if s, ok := elems[1].(string); ok && s == selCascade {
			return kindCascade
		}
	}

	// A reserved block tag in the selector position must always be
	// either a well-formed block literal or a malformed-block error —
	// it must never fall through to an ordinary message send.
	if len(elems) >= 2 {
		if s, ok := elems[1].(string); ok && s == selBlockTag {
			if len(elems) == 3 {
				if _, ok := isNameList(elems[0]); ok {
					return kindBlockLiteral
				}
			}
			return kindMalformedBlock
		}
	}

	if len(elems) >= 2 {
		if sel, ok := elems[1].(string); ok {
			colons := strings.Count(sel, ":")
			if colons > 0 && sel != selDefine && sel != selCascade && sel != selBlockTag {
				return kindKeywordSend
			}
			if colons == 0 && sel != selBlockTag {
				if len(elems) == 3 {
					return kindBinarySend
				}
				if len(elems) == 2 {
					return kindUnarySend
				}
			}
		}
	}

	return kindSequence
}

// isAssignSelector reports whether s is an assignment selector: exactly
// one trailing colon and no other colon anywhere in the name.
func isAssignSelector(s string) bool {
	if s == "" || !strings.HasSuffix(s, ":") {
		return false
	}
	if s == selDefine || s == selCascade || s == selBlockTag {
		return false
	}
	return strings.Count(s, ":") == 1
}

// isNameList reports whether v is a JSON array of strings, returning it
// as a []string when so. Used to recognise a block literal's parameter
// list and to validate define:args:body:'s argNames.
func isNameList(v any) ([]string, bool) {
	arr, ok := v.([]any)
	if !ok {
		return nil, false
	}
	names := make([]string, 0, len(arr))
	for _, e := range arr {
		s, ok := e.(string)
		if !ok {
			return nil, false
		}
		names = append(names, s)
	}
	return names, true
}

// keywordArity reports the number of colon-separated segments in a
// keyword selector, i.e. the number of arguments it expects besides the
// receiver.
func keywordArity(selector string) int {
	return strings.Count(selector, ":")
}
