package i18n

// Resolve returns dict[locale] when it is present and not the zero value,
// otherwise dict[defaultLocale]. Apply it per field so partially translated
// records fall back field by field.
func Resolve[V comparable](dict map[string]V, locale, defaultLocale string) V {
	var zero V
	if value, ok := dict[NormalizeCode(locale)]; ok && value != zero {
		return value
	}
	return dict[NormalizeCode(defaultLocale)]
}
