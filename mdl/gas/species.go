// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gas

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Species holds NASA 9-coefficient polynomial fits for one gaseous species
//
//	Cp/R = a0/T² + a1/T + a2 + a3 T + a4 T² + a5 T³ + a6 T⁴
//	H/RT = -a0/T² + a1 ln(T)/T + a2 + a3 T/2 + a4 T²/3 + a5 T³/4 + a6 T⁴/5 + b0/T
//	S/R  = -a0/(2T²) - a1/T + a2 ln(T) + a3 T + a4 T²/2 + a5 T³/3 + a6 T⁴/4 + b1
//	References:
//	 [1] McBride BJ, Zehe MJ and Gordon S (2002) NASA Glenn coefficients for calculating
//	     thermodynamic properties of individual species. NASA/TP-2002-211556
type Species struct {
	Name  string             // name of species; e.g. "CO2"
	Atoms map[string]float64 // number of atoms of each element in one molecule
	Mw    float64            // molecular weight [kg/kmol]
	Tmid  float64            // temperature separating the low and high ranges [K]
	Low   [9]float64         // coefficients for T < Tmid
	High  [9]float64         // coefficients for T ≥ Tmid
}

// coefs returns the set of coefficients valid at T
func (o *Species) coefs(T float64) *[9]float64 {
	if T < o.Tmid {
		return &o.Low
	}
	return &o.High
}

// CpR returns Cp/R (dimensionless)
func (o *Species) CpR(T float64) float64 {
	a := o.coefs(T)
	return a[0]/(T*T) + a[1]/T + a[2] + T*(a[3]+T*(a[4]+T*(a[5]+T*a[6])))
}

// HRT returns H/(R T) (dimensionless)
func (o *Species) HRT(T float64) float64 {
	a := o.coefs(T)
	return -a[0]/(T*T) + a[1]*math.Log(T)/T + a[2] + T*(a[3]/2+T*(a[4]/3+T*(a[5]/4+T*a[6]/5))) + a[7]/T
}

// SR returns S°/R (dimensionless) at the standard pressure
func (o *Species) SR(T float64) float64 {
	a := o.coefs(T)
	return -a[0]/(2*T*T) - a[1]/T + a[2]*math.Log(T) + T*(a[3]+T*(a[4]/2+T*(a[5]/3+T*a[6]/4))) + a[8]
}

// All computes Cp/R, H/RT and S°/R at once
func (o *Species) All(T float64) (cpr, hrt, sr float64) {
	a := o.coefs(T)
	lnT := math.Log(T)
	T2 := T * T
	cpr = a[0]/T2 + a[1]/T + a[2] + T*(a[3]+T*(a[4]+T*(a[5]+T*a[6])))
	hrt = -a[0]/T2 + a[1]*lnT/T + a[2] + T*(a[3]/2+T*(a[4]/3+T*(a[5]/4+T*a[6]/5))) + a[7]/T
	sr = -a[0]/(2*T2) - a[1]/T + a[2]*lnT + T*(a[3]+T*(a[4]/2+T*(a[5]/3+T*a[6]/4))) + a[8]
	return
}

// GetSpecies returns species data from database
func GetSpecies(name string) (*Species, error) {
	s, ok := speciesDb[name]
	if !ok {
		return nil, chk.Err("species %q is not available in 'gas' database", name)
	}
	return s, nil
}

// speciesDb holds NASA Glenn thermodynamic data for air/fuel combustion products (200 K to 6000 K)
var speciesDb = map[string]*Species{
	"Ar": {
		Name: "Ar", Atoms: map[string]float64{"Ar": 1}, Mw: 39.948, Tmid: 1000,
		Low:  [9]float64{0, 0, 2.5, 0, 0, 0, 0, -745.375, 4.37967491},
		High: [9]float64{20.10538475, -0.05992661070, 2.500069401, -3.992141160e-08, 1.205272140e-11, -1.819015576e-15, 1.078576636e-19, -744.993961, 4.37918011},
	},
	"CO": {
		Name: "CO", Atoms: map[string]float64{"C": 1, "O": 1}, Mw: 28.0101, Tmid: 1000,
		Low:  [9]float64{14890.45326, -292.2285939, 5.72452717, -8.17623503e-03, 1.456903469e-05, -1.087746302e-08, 3.027941827e-12, -13031.31878, -7.85924135},
		High: [9]float64{461919.725, -1944.704863, 5.91671418, -5.66428283e-04, 1.39881454e-07, -1.787680361e-11, 9.62093557e-16, -2466.261084, -13.87413108},
	},
	"CO2": {
		Name: "CO2", Atoms: map[string]float64{"C": 1, "O": 2}, Mw: 44.0095, Tmid: 1000,
		Low:  [9]float64{49436.5054, -626.411601, 5.30172524, 2.503813816e-03, -2.127308728e-07, -7.68998878e-10, 2.849677801e-13, -45281.9846, -7.04827944},
		High: [9]float64{117696.2419, -1788.791477, 8.29152319, -9.22315678e-05, 4.86367688e-09, -1.891053312e-12, 6.33003659e-16, -39083.5059, -26.52669281},
	},
	"H": {
		Name: "H", Atoms: map[string]float64{"H": 1}, Mw: 1.00794, Tmid: 1000,
		Low:  [9]float64{0, 0, 2.5, 0, 0, 0, 0, 25473.70801, -0.446682853},
		High: [9]float64{60.7877425, -0.1819354417, 2.500211817, -1.226512864e-07, 3.73287633e-11, -5.68774456e-15, 3.410210197e-19, 25474.86398, -0.448191777},
	},
	"H2": {
		Name: "H2", Atoms: map[string]float64{"H": 2}, Mw: 2.01588, Tmid: 1000,
		Low:  [9]float64{40783.2321, -800.918604, 8.21470201, -0.01269714457, 1.753605076e-05, -1.20286027e-08, 3.36809349e-12, 2682.484665, -30.43788844},
		High: [9]float64{560812.801, -837.150474, 2.975364532, 1.252249124e-03, -3.74071619e-07, 5.9366252e-11, -3.6069941e-15, 5339.82441, -2.202774769},
	},
	"H2O": {
		Name: "H2O", Atoms: map[string]float64{"H": 2, "O": 1}, Mw: 18.01528, Tmid: 1000,
		Low:  [9]float64{-39479.6083, 575.573102, 0.931782653, 7.22271286e-03, -7.34255737e-06, 4.95504349e-09, -1.336933246e-12, -33039.7431, 17.24205775},
		High: [9]float64{1034972.096, -2412.698562, 4.64611078, 2.291998307e-03, -6.83683048e-07, 9.42646893e-11, -4.82238053e-15, -13842.86509, -7.97814851},
	},
	"HO2": {
		Name: "HO2", Atoms: map[string]float64{"H": 1, "O": 2}, Mw: 33.00674, Tmid: 1000,
		Low:  [9]float64{-75988.8254, 1329.383918, -4.67738824, 0.02508308202, -3.006551588e-05, 1.895600056e-08, -4.82856739e-12, -5873.35096, 51.9360214},
		High: [9]float64{-1810669.724, 4963.19203, -1.039498992, 4.56014853e-03, -1.061859447e-06, 1.144567878e-10, -4.76306416e-15, -32008.1719, 40.6685092},
	},
	"N": {
		Name: "N", Atoms: map[string]float64{"N": 1}, Mw: 14.0067, Tmid: 1000,
		Low:  [9]float64{0, 0, 2.5, 0, 0, 0, 0, 56104.6378, 4.193905036},
		High: [9]float64{88765.0138, -107.12315, 2.362188287, 2.916720081e-04, -1.7295151e-07, 4.01265788e-11, -2.677227571e-15, 56973.5133, 4.865231506},
	},
	"NO": {
		Name: "NO", Atoms: map[string]float64{"N": 1, "O": 1}, Mw: 30.0061, Tmid: 1000,
		Low:  [9]float64{-11439.16503, 153.6467592, 3.43146873, -2.668592368e-03, 8.48139912e-06, -7.68511105e-09, 2.386797655e-12, 9098.21441, 6.72872549},
		High: [9]float64{223901.8716, -1289.651623, 5.43393603, -3.6560349e-04, 9.88096645e-08, -1.416076856e-11, 9.38018462e-16, 17503.17656, -8.50166909},
	},
	"NO2": {
		Name: "NO2", Atoms: map[string]float64{"N": 1, "O": 2}, Mw: 46.0055, Tmid: 1000,
		Low:  [9]float64{-56420.3878, 963.308572, -2.434510974, 0.01927760886, -1.874559328e-05, 9.14549773e-09, -1.777647635e-12, -1547.925037, 40.6785121},
		High: [9]float64{721300.157, -3832.6152, 11.13963285, -2.238062246e-03, 6.54772343e-07, -7.6113359e-11, 3.32836105e-15, 25024.97403, -43.0513004},
	},
	"N2": {
		Name: "N2", Atoms: map[string]float64{"N": 2}, Mw: 28.0134, Tmid: 1000,
		Low:  [9]float64{22103.71497, -381.846182, 6.08273836, -8.53091441e-03, 1.384646189e-05, -9.62579362e-09, 2.519705809e-12, 710.846086, -10.76003744},
		High: [9]float64{587712.406, -2239.249073, 6.06694922, -6.1396855e-04, 1.491806679e-07, -1.923105485e-11, 1.061954386e-15, 12832.10415, -15.86640027},
	},
	"O": {
		Name: "O", Atoms: map[string]float64{"O": 1}, Mw: 15.9994, Tmid: 1000,
		Low:  [9]float64{-7953.6113, 160.7177787, 1.966226438, 1.01367031e-03, -1.110415423e-06, 6.5175075e-10, -1.584779251e-13, 28403.62437, 8.40424182},
		High: [9]float64{261902.0262, -729.872203, 3.31717727, -4.28133436e-04, 1.036104594e-07, -9.43830433e-12, 2.725038297e-16, 33924.2806, -0.667958535},
	},
	"OH": {
		Name: "OH", Atoms: map[string]float64{"H": 1, "O": 1}, Mw: 17.00734, Tmid: 1000,
		Low:  [9]float64{-1998.85899, 93.0013616, 3.050854229, 1.529529288e-03, -3.157890998e-06, 3.31544618e-09, -1.138762683e-12, 2991.214235, 4.67411079},
		High: [9]float64{1017393.379, -2509.957276, 5.11654786, 1.30529993e-04, -8.28432226e-08, 2.006475941e-11, -1.556993656e-15, 20196.40206, -11.01282337},
	},
	"O2": {
		Name: "O2", Atoms: map[string]float64{"O": 2}, Mw: 31.9988, Tmid: 1000,
		Low:  [9]float64{-34255.6342, 484.700097, 1.119010961, 4.29388924e-03, -6.83630052e-07, -2.0233727e-09, 1.039040018e-12, -3391.45487, 18.4969947},
		High: [9]float64{-1037939.022, 2344.830282, 1.819732036, 1.267847582e-03, -2.188067988e-07, 2.053719572e-11, -8.19346705e-16, -16890.10929, 17.38716506},
	},
}
