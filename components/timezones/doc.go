// Package timezones provides deterministic IANA timezone data and a named
// search handler that serves it to autocomplete widgets.
//
// Matches are case-insensitive; zones starting with the query come before
// zones merely containing it. The backing data is loaded from the embedded
// IANA timezone list under data/iana_timezones.txt.
package timezones
