package system

import (
	"github.com/milk9111/deskpet/ecs"
	"github.com/milk9111/deskpet/ecs/component"
	"github.com/milk9111/deskpet/motion"
)

// AnimationSystem picks the frame set for the pet's pose and steps through
// its frames using each frame's own delay.
type AnimationSystem struct {
	frameMillis float64
	rand        motion.Rand
}

// NewAnimationSystem runs at tps updates per second. A nil r uses the
// global source.
func NewAnimationSystem(tps int, r motion.Rand) *AnimationSystem {
	if tps <= 0 {
		tps = 60
	}
	if r == nil {
		r = motion.GlobalRand()
	}
	return &AnimationSystem{frameMillis: 1000 / float64(tps), rand: r}
}

func (s *AnimationSystem) Update(w *ecs.World) {
	ecs.ForEach3(w, component.AnimationComponent.Kind(), component.SpriteComponent.Kind(), component.MotionComponent.Kind(),
		func(e ecs.Entity, anim *component.Animation, sprite *component.Sprite, mot *component.Motion) {
			if mot.Machine == nil {
				return
			}
			pose := mot.Machine.Pose()
			facing := mot.Machine.Body().Facing
			if anim.Current == "" || pose != mot.Pose || (pose == motion.PoseMove && facing != mot.Facing) {
				s.apply(anim, mot.Pose, pose, facing)
				mot.Pose = pose
				mot.Facing = facing
			}

			s.step(anim)
			sprite.Image = anim.Image()
		})
}

func (s *AnimationSystem) apply(anim *component.Animation, prev, next motion.Pose, facing motion.Facing) {
	if prev == motion.PoseDrag && next != motion.PoseDrag {
		restore := anim.PreDrag
		anim.PreDrag = ""
		if anim.Play(restore) {
			return
		}
	}

	switch next {
	case motion.PoseDrag:
		if anim.Current != component.AnimDrag {
			anim.PreDrag = anim.Current
		}
		anim.Play(component.AnimDrag)
	case motion.PoseIdle:
		if len(anim.Idle) > 0 && anim.Play(anim.Idle[s.rand.IntN(len(anim.Idle))]) {
			return
		}
		s.playMove(anim, facing)
	case motion.PoseHold:
		if anim.Current == "" {
			s.playMove(anim, facing)
		}
	default:
		s.playMove(anim, facing)
	}
}

func (s *AnimationSystem) playMove(anim *component.Animation, facing motion.Facing) {
	if facing == motion.FacingLeft && anim.Play(component.AnimMoveLeft) {
		return
	}
	anim.Play(component.AnimMove)
}

func (s *AnimationSystem) step(anim *component.Animation) {
	set := anim.Set(anim.Current)
	if set.Len() == 0 {
		return
	}
	anim.Elapsed += s.frameMillis
	for anim.Elapsed >= float64(set.Delay(anim.Frame)) {
		anim.Elapsed -= float64(set.Delay(anim.Frame))
		anim.Frame = (anim.Frame + 1) % set.Len()
	}
}
