// Package connectors holds the source adapters that download book files
// and list what is available upstream. Each connector implements
// driven.SourceFetcher, driven.SourceDiscoverer and driven.SourceMetadata
// for one location:
//
//   - google/drive: a Drive folder read with a service account
//   - filesystem: a local books folder
//
// The google package also carries the Sheets client used by the review
// surface. Downloaded files are turned into text by the normalisers.
package connectors
