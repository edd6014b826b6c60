// Package background selects and extracts time windows from background
// media sources.
//
// Window selection keeps a small safety margin from the end of the source
// and degrades to the whole source when it is shorter than the request.
// Audio extraction falls back to a silent placeholder; video extraction
// retries with a tolerant strategy and fails fatally when exhausted.
package background
