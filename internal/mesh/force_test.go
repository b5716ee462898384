package mesh

import (
	"math"
	"testing"
)

const eps = 1e-9

func nodeAt(col, row int, spacing float64) Node {
	x, y := float64(col)*spacing, float64(row)*spacing
	return Node{BaseX: x, BaseY: y, X: x, Y: y, Col: col, Row: row}
}

func TestAmbientWithoutPointer(t *testing.T) {
	n := nodeAt(4, 7, 40)
	tm := 1.23

	wantX := n.BaseX + math.Sin(tm+4*0.3)*3
	wantY := n.BaseY + math.Cos(tm+7*0.3)*3

	for _, mode := range Modes {
		tx, ty := ComputeTarget(&n, Pointer{}, 150, mode, tm)
		if tx != wantX || ty != wantY {
			t.Errorf("mode %s: got (%v,%v), expected (%v,%v)", mode, tx, ty, wantX, wantY)
		}
	}
}

func TestFalloffBoundary(t *testing.T) {
	n := nodeAt(0, 0, 40)
	p := Pointer{}
	p.Move(150, 0)

	if f := Force(150, 150); f != 0 {
		t.Errorf("expected zero force at radius, got %v", f)
	}

	ax, ay := Ambient(&n, 0.5)
	for _, mode := range Modes {
		tx, ty := ComputeTarget(&n, p, 150, mode, 0.5)
		if tx != ax || ty != ay {
			t.Errorf("mode %s: boundary target (%v,%v) differs from ambient (%v,%v)", mode, tx, ty, ax, ay)
		}
	}
}

func TestRepelAttractSymmetry(t *testing.T) {
	n := nodeAt(5, 5, 40)
	p := Pointer{}
	p.Move(n.BaseX-30, n.BaseY-40)

	rx, ry := ComputeTarget(&n, p, 150, ModeRepel, 0)
	ax, ay := ComputeTarget(&n, p, 150, ModeAttract, 0)

	rdx, rdy := rx-n.BaseX, ry-n.BaseY
	adx, ady := ax-n.BaseX, ay-n.BaseY

	if rdx <= 0 || rdy <= 0 {
		t.Errorf("repel should push away from pointer, got (%v,%v)", rdx, rdy)
	}
	if adx >= 0 || ady >= 0 {
		t.Errorf("attract should pull toward pointer, got (%v,%v)", adx, ady)
	}
	if math.Abs(adx/rdx+0.75) > eps || math.Abs(ady/rdy+0.75) > eps {
		t.Errorf("expected attract = -0.75 * repel, got ratios %v, %v", adx/rdx, ady/rdy)
	}

	force := (150.0 - 50.0) / 150.0
	if math.Abs(math.Hypot(rdx, rdy)-force*40) > eps {
		t.Errorf("repel magnitude %v, expected %v", math.Hypot(rdx, rdy), force*40)
	}
}

func TestGlowNoDisplacement(t *testing.T) {
	n := nodeAt(3, 2, 40)
	for _, offset := range []float64{0, 10, 75, 149} {
		p := Pointer{}
		p.Move(n.BaseX+offset, n.BaseY)
		tx, ty := ComputeTarget(&n, p, 150, ModeGlow, 2.0)
		ax, ay := Ambient(&n, 2.0)
		if tx != ax || ty != ay {
			t.Errorf("offset %v: glow moved target to (%v,%v)", offset, tx, ty)
		}
	}
}

func TestPointerOnNodeRepel(t *testing.T) {
	n := nodeAt(2, 3, 40)
	p := Pointer{}
	p.Move(n.BaseX, n.BaseY)

	if f := Force(0, 150); f != 1 {
		t.Errorf("expected force 1 at pointer, got %v", f)
	}

	tx, ty := ComputeTarget(&n, p, 150, ModeRepel, 0.7)
	if tx != n.BaseX+40 || ty != n.BaseY {
		t.Errorf("expected (%v,%v), got (%v,%v)", n.BaseX+40, n.BaseY, tx, ty)
	}
}

func TestWaveRipple(t *testing.T) {
	n := nodeAt(2, 0, 40)
	p := Pointer{}
	p.Move(0, 0)

	distance := 80.0
	force := (150 - distance) / 150
	for _, tm := range []float64{0, 0.5, 1.0} {
		tx, ty := ComputeTarget(&n, p, 150, ModeWave, tm)
		want := math.Sin(distance*0.05-tm*3) * force * 25
		if math.Abs(tx-(n.BaseX+want)) > eps || math.Abs(ty-n.BaseY) > eps {
			t.Errorf("t=%v: got (%v,%v), expected (%v,%v)", tm, tx, ty, n.BaseX+want, n.BaseY)
		}
	}
}

func TestZeroRadiusIsAmbient(t *testing.T) {
	n := nodeAt(1, 1, 40)
	p := Pointer{}
	p.Move(n.BaseX, n.BaseY)
	tx, ty := ComputeTarget(&n, p, 0, ModeRepel, 0)
	ax, ay := Ambient(&n, 0)
	if tx != ax || ty != ay {
		t.Errorf("zero radius should apply no force, got (%v,%v)", tx, ty)
	}
}
