// Package chart turns filtered country entries into a horizontal bar chart of
// approval rates and encodes it for inline embedding.
//
// Building the chart model (Build) is separate from rasterising it
// (Renderer.PNG) so the bucket assignment can be inspected without decoding
// an image. Rasterising uses the go-chart raster renderer and its bundled
// Roboto font.
package chart
