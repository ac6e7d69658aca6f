package planning

import (
	"testing"

	"go.viam.com/test"
)

func TestApplyAbs(t *testing.T) {
	a := AbsRel{Value: 5, Policy: Abs}
	test.That(t, a.Apply(100), test.ShouldEqual, 5.0)
}

func TestApplyRelAdd(t *testing.T) {
	a := AbsRel{Value: 5, Policy: RelAdd}
	test.That(t, a.Apply(10), test.ShouldEqual, 15.0)
}

func TestApplyRelSub(t *testing.T) {
	a := AbsRel{Value: 5, Policy: RelSub}
	test.That(t, a.Apply(10), test.ShouldEqual, 5.0)
}

func TestApplyRelMul(t *testing.T) {
	a := AbsRel{Value: 2, Policy: RelMul}
	test.That(t, a.Apply(10), test.ShouldEqual, 20.0)
}

func TestApplyRelDiv(t *testing.T) {
	a := AbsRel{Value: 2, Policy: RelDiv}
	test.That(t, a.Apply(10), test.ShouldEqual, 5.0)
}

func TestApplyIntRounds(t *testing.T) {
	a := AbsRel{Value: 0.6, Policy: RelAdd}
	test.That(t, a.ApplyInt(10), test.ShouldEqual, 11)
}
