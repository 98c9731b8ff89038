// Package postfilter holds the text filters applied to generated posts.
//
// Each filter is a driven.PostProcessor. The default order is assembled in
// postprocessors.DefaultPipeline.
package postfilter
