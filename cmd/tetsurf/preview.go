package main

import (
	"errors"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"github.com/soypat/tetsurf/render"
)

const (
	previewWidth  = 1024
	previewHeight = 768
	// supersampling factor, the image is downsampled for antialiasing.
	previewScale = 2
	previewFovy  = 30 // vertical field of view in degrees
)

// savePreview renders model with a phong shader to a PNG file.
func savePreview(path string, model []render.Triangle3) error {
	if len(model) == 0 {
		return errors.New("no triangles to preview")
	}
	triangles := make([]*fauxgl.Triangle, 0, len(model))
	for _, t := range model {
		triangles = append(triangles, fauxgl.NewTriangleForPoints(
			fauxgl.V(t[0].X, t[0].Y, t[0].Z),
			fauxgl.V(t[1].X, t[1].Y, t[1].Z),
			fauxgl.V(t[2].X, t[2].Y, t[2].Z),
		))
	}
	mesh := fauxgl.NewTriangleMesh(triangles)

	var (
		eye    = fauxgl.V(3, -3, 2.5)                  // camera position
		center = fauxgl.V(0, 0, 0)                     // view center position
		up     = fauxgl.V(0, 0, 1)                     // up vector
		light  = fauxgl.V(-0.75, -0.25, 1).Normalize() // light direction
		color  = fauxgl.HexColor("#468966")            // object color
	)
	// fit mesh in a bi-unit cube centered at the origin
	mesh.BiUnitCube()
	context := fauxgl.NewContext(previewWidth*previewScale, previewHeight*previewScale)
	context.ClearColorBufferWith(fauxgl.HexColor("#FFF8E3"))
	// Boundary faces carry no consistent winding.
	context.Cull = fauxgl.CullNone
	aspect := float64(previewWidth) / float64(previewHeight)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(previewFovy, aspect, 1, 10)
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = color
	context.Shader = shader
	context.DrawMesh(mesh)
	image := resize.Resize(previewWidth, previewHeight, context.Image(), resize.Bilinear)
	return fauxgl.SavePNG(path, image)
}
