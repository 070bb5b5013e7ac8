package domain

import "strings"

// PageIDFromLink returns the last path segment of a page link without its
// extension, e.g. "/docs/pages/pkg/intro_it.mndoc?x=1" -> "intro_it".
func PageIDFromLink(link string) string {
	if link == "" {
		return ""
	}
	link = strings.SplitN(link, "#", 2)[0]
	link = strings.SplitN(link, "?", 2)[0]
	name := link[strings.LastIndex(link, "/")+1:]
	if i := strings.Index(name, "."); i >= 0 {
		name = name[:i]
	}
	return name
}

// FragmentFromLink returns the anchor part of a link, without any trailing
// query string. Links without exactly one '#' have no fragment.
func FragmentFromLink(link string) string {
	parts := strings.Split(link, "#")
	if len(parts) != 2 {
		return ""
	}
	return strings.SplitN(parts[1], "?", 2)[0]
}

// ParseJumpQuery recognises the "package:page" search shortcut
func ParseJumpQuery(term string) (packageID, pageID string, ok bool) {
	parts := strings.Split(term, ":")
	if len(parts) != 2 || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// LocalizedPageID appends the language suffix used by page ids
func LocalizedPageID(pageID, lang string) string {
	if lang == "" {
		return pageID
	}
	return pageID + "_" + lang
}

// IsFAQPage reports whether the page id belongs to the FAQ section
func IsFAQPage(pageID string) bool {
	return strings.HasPrefix(pageID, "faq_")
}
