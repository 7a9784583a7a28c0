// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package persist

// Remote document keys.

func BaleKey(profile string) string     { return "bales/" + profile }
func AppStateKey(profile string) string { return "app_state/" + profile }
func ProfileKey(id string) string       { return ProfilePrefix + id }
func ViewLinkKey(slug string) string    { return "live_views/" + slug }

func ArchivedBaleKey(profile, baleID string) string {
	return "archive/bales/" + profile + "/" + baleID
}

func ArchivedProfileKey(stamp, id string) string {
	return "archive/profiles/" + stamp + "/" + id
}

const (
	BalePrefix         = "bales/"
	ArchivedBalePrefix = "archive/bales/"
	ProfilePrefix      = "profiles/"
)

// Local fallback namespaces.

func localBale(profile string) string     { return "bale/" + profile }
func localAppState(profile string) string { return "app_state/" + profile }
func localProfile(id string) string       { return "profile/" + id }
func localViewLink(slug string) string    { return "live_view/" + slug }

func localArchivedBale(profile, baleID string) string {
	return "archive/bale/" + profile + "/" + baleID
}
