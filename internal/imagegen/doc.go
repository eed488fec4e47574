// Package imagegen renders share cards for posts: a themed gradient
// background with title, subtitle, and hashtag footer. Card text is derived
// from the content domain and optionally refined by the text backend. Raster
// rendering failures degrade to a deterministic SVG card so media posts can
// always ship an image.
package imagegen
