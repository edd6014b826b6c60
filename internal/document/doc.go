// Package document models the text thread storycast narrates: a title plus
// either a story body (optionally pre-split into parts) or an ordered list of
// comments, loaded from the JSON dumps the thread downloader produces.
package document
