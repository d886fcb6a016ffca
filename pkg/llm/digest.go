package llm

import "strings"

const subjectLabel = "Subject:"

// ParseDigest splits a completion into subject and body. The first line is
// the subject, with a leading "Subject:" label removed; everything after it
// is the body. Either value may come back empty.
func ParseDigest(text string) (subject, body string) {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if text == "" {
		return "", ""
	}

	first, rest, _ := strings.Cut(text, "\n")
	return cleanSubject(first), strings.TrimSpace(rest)
}

func cleanSubject(line string) string {
	line = strings.TrimSpace(line)

	// models sometimes emphasize the label: "**Subject:** ..." or "# Subject: ..."
	labeled := strings.TrimLeft(line, "#* ")
	if len(labeled) < len(subjectLabel) || !strings.EqualFold(labeled[:len(subjectLabel)], subjectLabel) {
		return line
	}

	subject := strings.TrimSpace(labeled[len(subjectLabel):])
	subject = strings.Trim(subject, "*")
	return strings.TrimSpace(subject)
}
