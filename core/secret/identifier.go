package secret

import "strings"

// assignedName returns the name a literal starting at offset is assigned to,
// as in `name = "..."`, `name: "..."` or `{"name": "..."}`. It returns "" when
// the literal is not the right hand side of an assignment or property.
func assignedName(src string, offset uint32) string {
	i := int(offset)
	if i > len(src) {
		return ""
	}
	i = skipSpaceBack(src, i)
	if i == 0 {
		return ""
	}
	switch src[i-1] {
	case '=':
		if i >= 2 && strings.IndexByte("=!<>", src[i-2]) >= 0 {
			return ""
		}
		i--
		if i > 0 && strings.IndexByte("+-*/%&|^?", src[i-1]) >= 0 {
			i--
		}
	case ':':
		i--
	default:
		return ""
	}
	i = skipSpaceBack(src, i)
	if i == 0 {
		return ""
	}

	if q := src[i-1]; q == '"' || q == '\'' {
		open := strings.LastIndexByte(src[:i-1], q)
		if open < 0 {
			return ""
		}
		before := skipSpaceBack(src, open)
		if before == 0 || (src[before-1] != '{' && src[before-1] != ',') {
			return ""
		}
		return src[open+1 : i-1]
	}

	end := i
	for i > 0 && isNameByte(src[i-1]) {
		i--
	}
	return src[i:end]
}

func skipSpaceBack(src string, i int) int {
	for i > 0 {
		switch src[i-1] {
		case ' ', '\t', '\n', '\r':
			i--
		default:
			return i
		}
	}
	return i
}

func isNameByte(c byte) bool {
	return c == '_' || c == '$' || c == '#' || c == '.' ||
		(c >= '0' && c <= '9') || (c|0x20 >= 'a' && c|0x20 <= 'z')
}
