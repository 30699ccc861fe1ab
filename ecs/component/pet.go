package component

import "github.com/milk9111/deskpet/motion"

type PetTag struct{}

var PetTagComponent = NewComponent[PetTag]()

// Motion binds the motion state machine to an entity.
type Motion struct {
	Machine *motion.Machine
	Tracker motion.Tracker
	// Pose is the pose the animation system last applied.
	Pose   motion.Pose
	Facing motion.Facing
}

var MotionComponent = NewComponent[Motion]()
