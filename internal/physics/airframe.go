package physics

import (
	"math"

	"github.com/san-kum/autopilot/internal/dynamo"
)

const (
	DefaultRollAuthority  = 4.0
	DefaultPitchAuthority = 2.0
	DefaultYawAuthority   = 1.0
	DefaultRateDamping    = 2.0
	DefaultRollStiffness  = 1.0
	DefaultPitchStiffness = 4.0
	DefaultMaxThrust      = 20.0
	DefaultDrag           = 0.2
)

// Airframe is a kinematic 6-DOF model over
// [x, y, z, phi, theta, psi, u, v, w, p, q, r].
//
// Surface deflections drive body rates against rate damping and attitude
// stiffness; throttle drives forward speed against linear drag. Body velocity
// is rotated into the inertial frame with the ZYX Euler convention. There is
// no gravity or aerodynamic coupling.
type Airframe struct {
	RollAuthority  float64
	PitchAuthority float64
	YawAuthority   float64
	RateDamping    float64
	RollStiffness  float64
	PitchStiffness float64
	MaxThrust      float64
	Drag           float64
}

func NewAirframe() *Airframe {
	return &Airframe{
		RollAuthority:  DefaultRollAuthority,
		PitchAuthority: DefaultPitchAuthority,
		YawAuthority:   DefaultYawAuthority,
		RateDamping:    DefaultRateDamping,
		RollStiffness:  DefaultRollStiffness,
		PitchStiffness: DefaultPitchStiffness,
		MaxThrust:      DefaultMaxThrust,
		Drag:           DefaultDrag,
	}
}

func (a *Airframe) StateDim() int   { return 12 }
func (a *Airframe) ControlDim() int { return 4 }

func (a *Airframe) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	phi, theta, psi := x[3], x[4], x[5]
	bu, bv, bw := x[6], x[7], x[8]
	p, q, r := x[9], x[10], x[11]

	var aileron, elevator, rudder, throttle float64
	if len(u) >= 4 {
		aileron, elevator, rudder, throttle = u[0], u[1], u[2], u[3]
	}

	sphi, cphi := math.Sin(phi), math.Cos(phi)
	sth, cth := math.Sin(theta), math.Cos(theta)
	spsi, cpsi := math.Sin(psi), math.Cos(psi)

	dx := make(dynamo.State, 12)

	// body -> inertial (ZYX)
	dx[0] = cth*cpsi*bu + (sphi*sth*cpsi-cphi*spsi)*bv + (cphi*sth*cpsi+sphi*spsi)*bw
	dx[1] = cth*spsi*bu + (sphi*sth*spsi+cphi*cpsi)*bv + (cphi*sth*spsi-sphi*cpsi)*bw
	dx[2] = -sth*bu + sphi*cth*bv + cphi*cth*bw

	dx[3] = p + (q*sphi+r*cphi)*math.Tan(theta)
	dx[4] = q*cphi - r*sphi
	dx[5] = (q*sphi + r*cphi) / cth

	dx[6] = a.MaxThrust*throttle - a.Drag*bu
	dx[7] = -a.Drag * bv
	dx[8] = -a.Drag * bw

	dx[9] = a.RollAuthority*aileron - a.RateDamping*p - a.RollStiffness*phi
	dx[10] = a.PitchAuthority*elevator - a.RateDamping*q - a.PitchStiffness*theta
	dx[11] = a.YawAuthority*rudder - a.RateDamping*r

	return dx
}

// TrimPitch is the steady pitch angle held under a constant elevator command.
func (a *Airframe) TrimPitch(elevator float64) float64 {
	return a.PitchAuthority * elevator / a.PitchStiffness
}

// TrimSpeed is the steady forward speed held under a constant throttle command.
func (a *Airframe) TrimSpeed(throttle float64) float64 {
	return a.MaxThrust * throttle / a.Drag
}

func (a *Airframe) Params() map[string]float64 {
	return map[string]float64{
		"roll_authority":  a.RollAuthority,
		"pitch_authority": a.PitchAuthority,
		"yaw_authority":   a.YawAuthority,
		"rate_damping":    a.RateDamping,
		"roll_stiffness":  a.RollStiffness,
		"pitch_stiffness": a.PitchStiffness,
		"max_thrust":      a.MaxThrust,
		"drag":            a.Drag,
	}
}
