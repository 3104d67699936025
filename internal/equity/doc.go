// Package equity computes equity-weighted flood risk per aggregation area.
//
// # Inputs
//
// Two tables joined on an aggregation-area label (typically a census block
// group ID):
//
//   - census: per-capita income and total population per area
//   - damage: flood damages per area, either per return period
//     ("Total Damage ({rp}Y)" columns) or as a precomputed expected annual
//     damage column ("Risk (EAD)")
//
// The damage table may be a raw FIAT metrics export; it is normalized before
// joining. The damage table is the left side of the join: damage rows without
// a census match are dropped and counted, census rows without damages are
// ignored.
//
// # Weighting Model
//
// Equity weights implement diminishing marginal utility of income. With I_PC
// the per-capita income of an area, I_WA the population-weighted mean income
// across all areas, and gamma the elasticity of marginal utility:
//
//	EW = (I_PC / I_WA)^-gamma
//
// gamma = 0 disables weighting (every weight is exactly 1); gamma = 1 makes
// the certainty-equivalence exponent below singular and is rejected.
//
// # Certainty-Equivalent Damage
//
// When per-return-period damages are available, each return period rp gets a
// risk premium. With P = 1 - exp(-1/rp) the annual exceedance probability,
// D the damage and z = D / I_AA the damage as a share of aggregated annual
// income (I_AA = I_PC * population):
//
//	R = (1 - (1 + P*((1-z)^(1-gamma) - 1))^(1/(1-gamma))) / (P * z)
//
// R is forced to 0 where the expression is NaN (the z = 0 case). The
// certainty-equivalent damage is CED = R*D and its equity-weighted form
// EWCED = EW*CED. The expected annual value EWCEAD integrates EWCED over
// return periods with log-linear frequency coefficients (see rpCoefficients).
//
// When only an EAD column is present, EWCEAD degenerates to EW*EAD.
//
// # Derived Metrics
//
// RankEWCED compares each area's ordinal rank under unweighted EAD with its
// rank under EWCEAD; a negative rank difference means the area's priority
// rises once equity weighting is applied. ResilienceIndex is the ratio
// SRI = EAD / EWCEAD, with division by zero reported as NaN.
package equity
