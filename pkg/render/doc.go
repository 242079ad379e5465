// Package render turns scenes and sampled transitions into output artifacts.
//
// # Overview
//
// The renderer never mutates the scene. It draws the model's current geometry
// and applies the per-shape overrides of an [anim.Frame] on top: an offset,
// an opacity, a scale and a tint. Shapes that a transition still refers to but
// that are no longer part of the scene (faded-out copies, replaced labels) are
// drawn after the scene so they stay visible until their fade completes.
//
// It provides:
//
//   - [RenderSVG]: one frame as an SVG document
//   - [RenderPNG] and [RenderPDF]: the same frame converted through rsvg-convert
//   - [RenderJSON]: the transition timeline of a whole run
//   - [ToPNG] and [ToPDF]: generic SVG conversion
//
// # Coordinates
//
// Scene units are mapped onto the frame's pixel size with the origin in the
// middle and the y axis pointing up. Stroke widths are given in hundredths of
// a scene unit ([StrokeUnit]); text sizes are points as in package scene.
//
// # Styles
//
// Drawing of primitives goes through the [Style] interface. [Simple] draws
// shapes with their configured colours; [Wireframe] draws every shape as a
// thin outline, which is useful when debugging placement. Use
// [StyleByName] to look one up from configuration.
//
//	f := anim.Sample(tr, 0.5)
//	svg := render.RenderSVG(sc, f, render.WithStyle(render.Simple{}))
//	png, err := render.ToPNG(svg, 2.0)
//
// [anim.Frame]: github.com/matzehuels/dsanim/pkg/anim.Frame
package render
