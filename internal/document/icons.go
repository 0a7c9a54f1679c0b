package document

// Icon keys understood by the presentation layer.
const (
	IconBrain      = "brain"
	IconCode       = "code"
	IconTrendingUp = "trending-up"

	DefaultIcon = IconCode
)

var knownIcons = map[string]bool{
	IconBrain:      true,
	IconCode:       true,
	IconTrendingUp: true,
}

// NormalizeIcon returns key when it names a known icon and DefaultIcon
// otherwise. Keys are matched exactly.
func NormalizeIcon(key string) string {
	if knownIcons[key] {
		return key
	}
	return DefaultIcon
}
