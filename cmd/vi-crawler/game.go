package main

import (
	"fmt"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/vi-crawler/asset"
	"github.com/lixenwraith/vi-crawler/audio"
	"github.com/lixenwraith/vi-crawler/core"
	"github.com/lixenwraith/vi-crawler/engine"
	"github.com/lixenwraith/vi-crawler/level"
	"github.com/lixenwraith/vi-crawler/parameter"
	"github.com/lixenwraith/vi-crawler/physics"
	"github.com/lixenwraith/vi-crawler/render"
	"github.com/lixenwraith/vi-crawler/vmath"
)

// Sound is the subset of the audio player the game triggers
type Sound interface {
	Play(t audio.SoundType) bool
}

type player struct {
	id   physics.OwnerID
	body *physics.Sphere
	yaw  float32 // Degrees
	hp   int
	hurt *engine.Window
	gun  *engine.Window
}

type goblin struct {
	id     physics.OwnerID
	body   *physics.Sphere
	sprite *physics.Sprite
	hp     int
	hurt   *engine.Window
	aiming bool
	muffin bool // Drops a muffin on death
}

type muffin struct {
	id     physics.OwnerID
	body   *physics.Sphere
	sprite *physics.Sprite
}

type projectile struct {
	id    physics.OwnerID
	body  *physics.Sphere
	vel   vmath.Vec3
	spent bool
}

// intent accumulates input between ticks
type intent struct {
	forward, strafe float32
	turn            float32
	fire            bool
}

// Game owns the demo dungeon state
// Tick, input methods and scheduler callbacks serialize on mu; contact
// handlers only run inside Tick so they never lock
type Game struct {
	mu       sync.Mutex
	world    *physics.World
	entities *engine.Entities
	sched    *engine.Scheduler
	camera   *render.Camera
	sound    Sound

	place   level.Placement
	player  player
	goblins map[physics.OwnerID]*goblin
	shots   map[physics.OwnerID]*projectile
	muffins map[physics.OwnerID]*muffin
	input   intent
	bump    *engine.Window
	over    bool

	status atomic.Pointer[string]
}

// NewGame builds the layout into world and spawns the player and goblins
func NewGame(world *physics.World, entities *engine.Entities, sched *engine.Scheduler,
	camera *render.Camera, sound Sound, layout level.Layout) *Game {
	g := &Game{
		world:    world,
		entities: entities,
		sched:    sched,
		camera:   camera,
		sound:    sound,
		place:    level.NewPlacement(layout.Grid),
		goblins:  make(map[physics.OwnerID]*goblin),
		shots:    make(map[physics.OwnerID]*projectile),
		muffins:  make(map[physics.OwnerID]*muffin),
		bump:     engine.NewWindow(sched, physics.NoOwner, parameter.BumpSoundCooldown),
	}
	level.Build(world, layout, g.place)

	g.spawnPlayer(g.place.Center(layout.Start))
	texture := asset.Goblin()
	for i, p := range layout.Spawns {
		g.spawnGoblin(g.place.Center(p), texture).muffin = i == 0
	}

	g.setStatus(fmt.Sprintf("HP %d  goblins %d", g.player.hp, len(g.goblins)))
	g.camera.SetTransform(g.player.body.Position(), g.player.yaw)
	return g
}

func (g *Game) spawnPlayer(pos vmath.Vec3) {
	id := g.entities.Spawn(physics.ContactFunc(g.playerContact))
	g.player = player{
		id: id,
		body: physics.NewSphere(parameter.PlayerRadius, physics.Options{
			Owner:        id,
			Render:       physics.RenderCollision,
			Layers:       physics.LayerPlayer,
			CollidesWith: physics.LayerEnvironment | physics.LayerProjectileEnemy | physics.LayerMuffin,
		}),
		hp:   parameter.PlayerHealth,
		hurt: engine.NewWindow(g.sched, id, parameter.InvincibilityWindow),
		gun:  engine.NewWindow(g.sched, id, parameter.FireCooldown),
	}
	g.player.body.SetPosition(pos)
	g.world.Add(g.player.body)
}

func (g *Game) spawnGoblin(pos vmath.Vec3, texture image.Image) *goblin {
	gb := &goblin{hp: parameter.GoblinHealth}
	gb.id = g.entities.Spawn(physics.ContactFunc(func(self, other physics.Shape) {
		g.goblinContact(gb, other)
	}))
	gb.hurt = engine.NewWindow(g.sched, gb.id, parameter.InvincibilityWindow)

	gb.body = physics.NewSphere(parameter.GoblinRadius, physics.Options{
		Owner:        gb.id,
		Render:       physics.RenderCollision,
		Layers:       physics.LayerEnemies,
		CollidesWith: physics.LayerProjectilePlayer,
	})
	gb.body.SetPosition(pos)

	gb.sprite = physics.NewSprite(texture, physics.Options{Owner: gb.id, Render: physics.RenderVisual})
	b := texture.Bounds()
	width := parameter.GoblinHeight * float32(b.Dx()) / float32(b.Dy())
	gb.sprite.SetScale(vmath.V3(width, parameter.GoblinHeight, 1))
	gb.sprite.SetPosition(vmath.V3(pos[0], -parameter.WallHeight/2+parameter.GoblinHeight/2, pos[2]))
	gb.sprite.FaceToward(g.player.body.Position())

	g.world.Add(gb.body)
	g.world.Add(gb.sprite)
	g.goblins[gb.id] = gb
	return gb
}

// spawnMuffin drops a pickup at pos that expires unless collected
func (g *Game) spawnMuffin(pos vmath.Vec3) {
	m := &muffin{}
	m.id = g.entities.Spawn(physics.ContactFunc(func(self, other physics.Shape) {
		g.muffinContact(m, other)
	}))
	m.body = physics.NewSphere(parameter.MuffinRadius, physics.Options{
		Owner:        m.id,
		Render:       physics.RenderCollision,
		Layers:       physics.LayerMuffin,
		CollidesWith: physics.LayerPlayer,
	})
	m.body.SetPosition(pos)

	texture := asset.Muffin()
	b := texture.Bounds()
	m.sprite = physics.NewSprite(texture, physics.Options{Owner: m.id, Render: physics.RenderVisual})
	m.sprite.SetScale(vmath.V3(parameter.MuffinHeight*float32(b.Dx())/float32(b.Dy()), parameter.MuffinHeight, 1))
	m.sprite.SetPosition(vmath.V3(pos[0], -parameter.WallHeight/2+parameter.MuffinHeight/2, pos[2]))
	m.sprite.FaceToward(g.player.body.Position())

	g.world.Add(m.body)
	g.world.Add(m.sprite)
	g.muffins[m.id] = m

	id := m.id
	g.sched.After(id, parameter.MuffinSolid, func() { g.blinkMuffin(id, parameter.MuffinBlinks) })
}

// blinkMuffin toggles visibility until left reaches zero, then despawns
func (g *Game) blinkMuffin(id physics.OwnerID, left int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	m, ok := g.muffins[id]
	if !ok {
		return
	}
	if left <= 0 {
		g.despawnMuffin(id)
		return
	}
	m.sprite.SetVisible(left%2 == 1)
	g.sched.After(id, parameter.MuffinBlink, func() { g.blinkMuffin(id, left-1) })
}

func (g *Game) despawnMuffin(id physics.OwnerID) {
	m, ok := g.muffins[id]
	if !ok {
		return
	}
	delete(g.muffins, id)
	g.world.Remove(m.body)
	g.world.Remove(m.sprite)
	g.entities.Despawn(id)
}

// Input

// Move queues a step relative to the view direction
func (g *Game) Move(forward, strafe float32) {
	g.mu.Lock()
	g.input.forward += forward
	g.input.strafe += strafe
	g.mu.Unlock()
}

// Turn queues a yaw change in degrees, positive turns right
func (g *Game) Turn(deg float32) {
	g.mu.Lock()
	g.input.turn += deg
	g.mu.Unlock()
}

// Fire queues a shot along the view direction
func (g *Game) Fire() {
	g.mu.Lock()
	g.input.fire = true
	g.mu.Unlock()
}

// Status is the one-line HUD text
func (g *Game) Status() string {
	if s := g.status.Load(); s != nil {
		return *s
	}
	return ""
}

func (g *Game) setStatus(s string) { g.status.Store(&s) }

// Over reports whether the player died or cleared the level
func (g *Game) Over() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.over
}

// Tick advances the simulation by dt
func (g *Game) Tick(dt time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.over {
		g.input = intent{}
		return
	}
	g.applyInput()
	g.collectPickups()
	g.updateGoblins()
	g.updateShots(dt)
	g.camera.SetTransform(g.player.body.Position(), g.player.yaw)
}

func viewAxes(yawDeg float32) (forward, right vmath.Vec3) {
	rad := vmath.Deg2Rad(yawDeg)
	return vmath.RotateY(vmath.V3(0, 0, -1), rad), vmath.RotateY(vmath.V3(1, 0, 0), rad)
}

func (g *Game) applyInput() {
	in := g.input
	g.input = intent{}

	g.player.yaw += in.turn
	forward, right := viewAxes(g.player.yaw)

	move := forward.Mul(in.forward).Add(right.Mul(in.strafe))
	// Larger steps could pass through corners between two ticks
	if l := move.Len(); l > parameter.PlayerRadius {
		move = move.Mul(parameter.PlayerRadius / l)
	}
	if vmath.MagSq(move) > 0 {
		slid := g.world.SlideSphere(g.player.body, move, physics.LayerEnvironment)
		if vmath.MagSq(slid) < vmath.MagSq(move)/4 && g.bump.Trigger() {
			g.sound.Play(audio.SoundBump)
		}
		g.player.body.SetPosition(g.player.body.Position().Add(slid))
	}

	if in.fire && g.player.gun.Trigger() {
		g.spawnShot(g.player.body, forward, parameter.ProjectileSpeed,
			physics.LayerProjectilePlayer, physics.LayerEnemies, core.NewRGB(255, 220, 80))
	}
}

// collectPickups tests the player against nearby muffins
func (g *Game) collectPickups() {
	if len(g.muffins) == 0 {
		return
	}
	target := g.player.body.Position()
	for _, m := range g.muffins {
		m.sprite.FaceToward(target)
		g.world.TestPair(m.body, g.player.body)
	}
}

// sees reports an unobstructed line from gb to the player within sight range
func (g *Game) sees(gb *goblin) bool {
	from := gb.body.Position()
	to := g.player.body.Position()
	if vmath.SquaredDistance(from, to) > parameter.GoblinSightRange*parameter.GoblinSightRange {
		return false
	}
	ray, err := physics.NewRay(from, to.Sub(from), parameter.GoblinSightRange)
	if err != nil {
		return false
	}
	ray.Render = physics.RenderCollision
	hit, ok := g.world.Raycast(ray, physics.LayerEnvironment|physics.LayerPlayer)
	return ok && hit.Shape == physics.Shape(g.player.body)
}

func (g *Game) updateGoblins() {
	target := g.player.body.Position()
	for _, gb := range g.goblins {
		gb.sprite.FaceToward(target)
		if gb.aiming || !g.sees(gb) {
			continue
		}
		gb.aiming = true
		id := gb.id
		g.sched.After(id, parameter.RangedWindup, func() { g.goblinShoot(id) })
	}
}

// goblinShoot runs on a scheduler goroutine after the windup
func (g *Game) goblinShoot(id physics.OwnerID) {
	g.mu.Lock()
	defer g.mu.Unlock()

	gb, ok := g.goblins[id]
	if !ok || g.over {
		return
	}
	if !g.sees(gb) {
		gb.aiming = false
		return
	}
	dir := g.player.body.Position().Sub(gb.body.Position())
	g.spawnShot(gb.body, dir, parameter.EnemyProjectileSpeed,
		physics.LayerProjectileEnemy, physics.LayerPlayer, core.NewRGB(120, 255, 90))

	g.sched.After(id, parameter.GoblinReload, func() {
		g.mu.Lock()
		gb.aiming = false
		g.mu.Unlock()
	})
}

// spawnShot launches a projectile from the edge of the shooter's sphere
// Projectiles always stop at walls in addition to their targets
func (g *Game) spawnShot(from *physics.Sphere, dir vmath.Vec3, speed float32,
	layer, targets physics.CollisionLayer, color core.Color) {
	dir, err := vmath.Normalize(dir)
	if err != nil {
		return
	}

	p := &projectile{vel: dir.Mul(speed)}
	p.id = g.entities.Spawn(physics.ContactFunc(func(self, other physics.Shape) { p.spent = true }))
	p.body = physics.NewSphere(parameter.ProjectileRadius, physics.Options{
		Owner:        p.id,
		Render:       physics.RenderBoth,
		Layers:       layer,
		CollidesWith: targets | physics.LayerEnvironment,
		Color:        color,
	})
	offset := from.Radius() + parameter.ProjectileRadius + 0.05
	p.body.SetPosition(from.Position().Add(dir.Mul(offset)))

	g.world.Add(p.body)
	g.shots[p.id] = p
	g.sound.Play(audio.SoundShoot)

	id := p.id
	g.sched.After(id, parameter.ProjectileLifetime, func() {
		g.mu.Lock()
		g.despawnShot(id)
		g.mu.Unlock()
	})
}

func (g *Game) updateShots(dt time.Duration) {
	step := float32(dt.Seconds())
	for _, p := range g.shots {
		p.body.SetPosition(p.body.Position().Add(p.vel.Mul(step)))
		g.world.CollideAll(p.body)
	}
	for id, p := range g.shots {
		if p.spent {
			g.despawnShot(id)
		}
	}
}

func (g *Game) despawnShot(id physics.OwnerID) {
	p, ok := g.shots[id]
	if !ok {
		return
	}
	delete(g.shots, id)
	g.world.Remove(p.body)
	g.entities.Despawn(id)
}

// Contact handlers, called from Tick with mu held

func (g *Game) goblinContact(gb *goblin, other physics.Shape) {
	if !other.Layers().Has(physics.LayerProjectilePlayer) || !gb.hurt.Trigger() {
		return
	}
	gb.hp--
	g.sound.Play(audio.SoundHit)

	if gb.hp > 0 {
		gb.sprite.SetVisible(false)
		sprite := gb.sprite
		g.sched.After(gb.id, parameter.GoblinHitFlash, func() { sprite.SetVisible(true) })
		return
	}

	delete(g.goblins, gb.id)
	g.world.Remove(gb.body)
	g.world.Remove(gb.sprite)
	g.entities.Despawn(gb.id)
	if gb.muffin {
		g.spawnMuffin(gb.body.Position())
	}

	if len(g.goblins) == 0 {
		g.over = true
		g.setStatus("Dungeon cleared, press q to quit")
		return
	}
	g.setStatus(fmt.Sprintf("HP %d  goblins %d", g.player.hp, len(g.goblins)))
}

func (g *Game) playerContact(self, other physics.Shape) {
	if !other.Layers().Has(physics.LayerProjectileEnemy) || !g.player.hurt.Trigger() {
		return
	}
	g.player.hp--
	g.sound.Play(audio.SoundHit)

	if g.player.hp <= 0 {
		g.over = true
		g.setStatus("You died, press q to quit")
		return
	}
	g.setStatus(fmt.Sprintf("HP %d  goblins %d", g.player.hp, len(g.goblins)))
}

func (g *Game) muffinContact(m *muffin, other physics.Shape) {
	if !other.Layers().Has(physics.LayerPlayer) {
		return
	}
	if _, ok := g.muffins[m.id]; !ok {
		return
	}
	g.despawnMuffin(m.id)
	g.player.hp = parameter.PlayerHealth
	g.sound.Play(audio.SoundEat)
	if !g.over {
		g.setStatus(fmt.Sprintf("HP %d  goblins %d", g.player.hp, len(g.goblins)))
	}
}
