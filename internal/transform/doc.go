// Package transform converts between the coordinate frames issview works in.
//
// The visualization path uses a spherical Earth of radius EarthRadius:
// SphereMesh samples the wireframe globe and GeodeticToCartesian places the
// markers on it. The pass predictor needs a more careful model and uses the
// WGS-84 ellipsoid for observers plus a GMST-only TEME→ECEF rotation for SGP4
// output, which ignores polar motion and the equation of the equinoxes
// (tens of meters, irrelevant to rise/set times at one-second resolution).
package transform
