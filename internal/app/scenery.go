package app

import (
	"path/filepath"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/dualview/internal/engine/frame"
	"github.com/Faultbox/dualview/internal/engine/geometry"
	"github.com/Faultbox/dualview/internal/engine/lighting"
	"github.com/Faultbox/dualview/internal/engine/loader"
	"github.com/Faultbox/dualview/internal/engine/material"
	"github.com/Faultbox/dualview/internal/engine/scene"
	"github.com/Faultbox/dualview/internal/engine/texture"
	"github.com/Faultbox/dualview/pkg/math"
)

// Asset paths relative to the asset root.
var (
	skyboxFaces = [6]string{
		"skybox/right.jpg",
		"skybox/left.jpg",
		"skybox/top.jpg",
		"skybox/bottom.jpg",
		"skybox/front.jpg",
		"skybox/back.jpg",
	}
	grassImage = "images/grass.png"
	eyeImage   = "images/eye.jpg"
	wallModel  = "Obj/oldWall.obj"
	wallLib    = "Obj/oldWall.mtl"
)

const (
	planeSize      = 40
	treeOffset     = 19.5
	stepCount      = 10
	stepWidth      = 4
	stepHeight     = 0.5
	stepDepth      = 1
	railingHeight  = 5
	railingRadius  = 0.1
	doorWidth      = 2
	doorHeight     = 4
	doorThickness  = 0.2
	doorFrameWidth = 0.2
	doorFrameDepth = 0.2
)

var (
	brown     = material.Hex(0x8B4513)
	darkBrown = material.Hex(0x654321)
	grey      = material.Hex(0x808080)
	green     = material.Hex(0x228B22)
)

// scenery is the viewer's scene plus the parts that change after it is built.
type scenery struct {
	scene    *scene.Scene
	spinners []*scene.Node

	grass *material.Material
	eyes  []*material.Material
	// wall receives the loaded model.
	wall *scene.Node
}

// buildScenery constructs every object that needs no file. Textured
// materials start untextured and the model slot starts empty.
func buildScenery(shadowMapSize int32) *scenery {
	s := &scenery{scene: scene.New()}
	sc := s.scene
	sc.Background.Color = material.Hex(0xAAAAAA)

	s.addLights(shadowMapSize)
	s.addGround()

	s.wall = scene.NewNode("wall")
	sc.Add(s.wall)

	s.addSpinners()
	sc.Add(trees())
	sc.Add(staircase())
	sc.Add(door())

	sc.Update()
	return s
}

func (s *scenery) addLights(shadowMapSize int32) {
	sc := s.scene
	sc.Lights.Hemisphere = &lighting.Hemisphere{
		Sky:       material.Hex(0xB1E1FF),
		Ground:    material.Hex(0xB97A20),
		Intensity: 0.2,
	}

	sun := lighting.NewDirectional(material.White, 1)
	sun.Position = math.V3(5, 10, 2)
	sun.CastShadow = true
	sun.Shadow.Left, sun.Shadow.Right = -15, 15
	sun.Shadow.Top, sun.Shadow.Bottom = 15, -15
	sun.Shadow.Near, sun.Shadow.Far = 1, 50
	sun.Shadow.MapSize = shadowMapSize
	sc.Lights.Directional = append(sc.Lights.Directional, sun)

	lampColor := material.Hex(0xFFAA00)
	lamp := lighting.NewPoint(lampColor, 100, 30, 1)
	lamp.Position = math.V3(10, 10, 10)
	sc.Lights.Point = append(sc.Lights.Point, lamp)

	helperMat := material.NewBasic(lampColor)
	helperMat.Wireframe = true
	helper := scene.NewMeshNode("lamp-helper", geometry.Sphere(1, 4, 2), helperMat)
	helper.Position = lamp.Position
	sc.Add(helper)

	pillar := scene.NewMeshNode("pillar", geometry.Cylinder(0.5, 0.5, 10, 32), material.NewPhong(grey))
	pillar.Position = math.V3(lamp.Position.X, 5, lamp.Position.Z)
	pillar.SetShadows(true, true)
	sc.Add(pillar)

	spot := lighting.NewSpot(material.Hex(0xA00FAA), 90, 30, math32.Pi/4, 0.5, 1)
	spot.Position = math.V3(-10, 15, 0)
	spot.CastShadow = true
	spot.Shadow.MapSize = shadowMapSize
	sc.Lights.Spot = append(sc.Lights.Spot, spot)
}

func (s *scenery) addGround() {
	s.grass = material.NewPhong(material.White)
	s.grass.Side = material.Double

	ground := scene.NewMeshNode("ground", geometry.Plane(planeSize, planeSize), s.grass)
	ground.Rotation.X = -math32.Pi / 2
	ground.ReceiveShadow = true
	s.scene.Add(ground)
}

func (s *scenery) addSpinners() {
	for range 6 {
		s.eyes = append(s.eyes, material.NewBasic(material.White))
	}

	group := scene.NewNode("spinners")
	group.Position = math.V3(0, 10, 0)
	for _, x := range []float32{0, 2, -2} {
		cube := scene.NewMeshNode("eye-cube", geometry.Box(1, 1, 1), s.eyes...)
		cube.Position = math.V3(x, 1, 0)
		group.Add(cube)
		s.spinners = append(s.spinners, cube)
	}
	s.scene.Add(group)
}

func trees() *scene.Node {
	group := scene.NewNode("trees")
	for _, p := range [][2]float32{
		{-treeOffset, -treeOffset},
		{-treeOffset, treeOffset},
		{treeOffset, -treeOffset},
		{treeOffset, treeOffset},
	} {
		trunk := scene.NewMeshNode("trunk", geometry.Cylinder(0.3, 0.3, 5, 32), material.NewPhong(brown))
		trunk.Position = math.V3(p[0], 2.5, p[1])
		leaves := scene.NewMeshNode("leaves", geometry.Sphere(2, 32, 32), material.NewPhong(green))
		leaves.Position = math.V3(p[0], 6, p[1])
		group.Add(trunk)
		group.Add(leaves)
	}
	group.SetShadows(true, true)
	return group
}

func staircase() *scene.Node {
	group := scene.NewNode("staircase")
	for i := range stepCount {
		step := scene.NewMeshNode("step", geometry.Box(stepWidth, stepHeight, stepDepth), material.NewPhong(grey))
		step.Position = math.V3(0, float32(i)*stepHeight, float32(i)*stepDepth)
		group.Add(step)
	}
	for _, x := range []float32{-stepWidth / 2, stepWidth / 2} {
		railing := scene.NewMeshNode("railing",
			geometry.Cylinder(railingRadius, railingRadius, railingHeight, 32), material.NewPhong(brown))
		railing.Position = math.V3(x, railingHeight/2, 9.3)
		group.Add(railing)
	}
	group.SetShadows(true, true)
	group.Position = math.V3(10, 0, -10)
	return group
}

func door() *scene.Node {
	group := scene.NewNode("door")
	frameNode := scene.NewMeshNode("door-frame",
		geometry.Box(doorWidth+doorFrameWidth*2, doorHeight, doorFrameDepth), material.NewPhong(brown))
	frameNode.Position = math.V3(0, doorHeight/2, 0)
	leaf := scene.NewMeshNode("door-leaf",
		geometry.Box(doorWidth, doorHeight, doorThickness), material.NewPhong(darkBrown))
	leaf.Position = math.V3(0, doorHeight/2, doorFrameDepth/2+doorThickness/2)
	group.Add(frameNode)
	group.Add(leaf)
	group.SetShadows(true, true)
	group.Position = math.V3(10, 4.5, -0.5)
	return group
}

// setSkybox replaces the solid background with the cube map.
func (s *scenery) setSkybox(cube *texture.Cube) {
	s.scene.Background.Cube = cube
}

// setGrass tiles the ground texture once per two world units.
func (s *scenery) setGrass(tex *texture.Texture) {
	tex.SetRepeat(planeSize/2, planeSize/2)
	tex.MagFilter = texture.Nearest
	s.grass.Map = tex
}

func (s *scenery) setEyes(tex *texture.Texture) {
	for _, m := range s.eyes {
		m.Map = tex
	}
}

// placeModel centres model on the origin in x and z and lifts it by a fifth
// of its bounding diagonal.
func (s *scenery) placeModel(model *scene.Node) {
	model.SetShadows(true, true)
	model.Position = math.Vec3{}
	box := scene.BoxFromObject(model)
	if !box.IsEmpty() {
		center := box.Center()
		diagonal := box.Size().Length()
		model.Position = math.V3(-center.X, -center.Y+diagonal*0.2, -center.Z)
	}
	s.wall.Add(model)
}

// load starts every asset read. Continuations run through poster, so the
// scene is only mutated between frames. A failed asset is logged and its
// placeholder stays.
func (s *scenery) load(ld *loader.Loader, poster frame.Poster, root string, log *zap.Logger) {
	path := func(rel string) string { return filepath.Join(root, rel) }

	var faces [6]string
	for i, f := range skyboxFaces {
		faces[i] = path(f)
	}
	ld.LoadCube(faces).Then(poster, func(cube *texture.Cube, err error) {
		if err != nil {
			assetFailed(log, "skybox", path("skybox"), err)
			return
		}
		s.setSkybox(cube)
	})

	ld.LoadTexture(path(grassImage)).Then(poster, func(tex *texture.Texture, err error) {
		if err != nil {
			assetFailed(log, "ground texture", path(grassImage), err)
			return
		}
		s.setGrass(tex)
	})

	ld.LoadTexture(path(eyeImage)).Then(poster, func(tex *texture.Texture, err error) {
		if err != nil {
			assetFailed(log, "cube texture", path(eyeImage), err)
			return
		}
		s.setEyes(tex)
	})

	ld.LoadModel(path(wallModel), path(wallLib)).Then(poster, func(model *scene.Node, err error) {
		if err != nil {
			assetFailed(log, "model", path(wallModel), err)
			return
		}
		s.placeModel(model)
		_, meshes := s.scene.Count()
		log.Info("model placed", zap.String("path", path(wallModel)), zap.Int("scene_meshes", meshes))
	})
}

// assetFailed logs a load failure. A missing file is expected when running
// without the asset pack; anything else is a broken asset.
func assetFailed(log *zap.Logger, what, path string, err error) {
	if loader.IsNotExist(err) {
		log.Info(what+" not found, keeping placeholder", zap.String("path", path))
		return
	}
	log.Warn(what+" unavailable, keeping placeholder", zap.String("path", path), zap.Error(err))
}
