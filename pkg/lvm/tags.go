package lvm

import "regexp"

// Characters allowed in lvm tags are: A-Z a-z 0-9 _ + . - and as of
// lvm2 2.02.78 the following characters are also accepted: / = ! : # &
var tagPattern = regexp.MustCompile(`[^a-zA-Z0-9/=!:#&+.\-_]`)

// CleanTag replaces every character that lvm would reject in a tag with "-".
func CleanTag(tag string) string {
	return tagPattern.ReplaceAllString(tag, "-")
}

// PrefixTags cleans each tag and prepends the namespace prefix. The prefix
// keeps tags this daemon matches and applies distinct from unrelated tags a
// volume may carry for other purposes.
func PrefixTags(prefix string, tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		out = append(out, prefix+CleanTag(tag))
	}
	return out
}
