// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flow

// conversion factors between English engineering units (used by stations) and SI (used by gas models)
const (
	RtoK        = 5.0 / 9.0          // degR → K
	KtoR        = 1.8                // K → degR
	PsiToBar    = 0.0689475729316836 // psia → bar
	BarToPsi    = 1.0 / PsiToBar     // bar → psia
	PsiToPa     = 6894.75729316836   // psia → Pa
	BtuLbmToJkg = 2326.0             // Btu/lbm → J/kg
	BtuRToJkgK  = 4186.8             // Btu/(lbm degR) → J/(kg K)
	KgM3ToLbmF3 = 0.0624279605761446 // kg/m³ → lbm/ft³
	MToFt       = 1.0 / 0.3048       // m → ft
	FtToM       = 0.3048             // ft → m
	In2ToM2     = 6.4516e-4          // in² → m²
	LbmToKg     = 0.45359237         // lbm → kg
	Gc          = 32.174049          // lbm ft / (lbf s²)
	HpToBtuS    = 0.706787           // hp → Btu/s
	BtuSToHp    = 1.0 / HpToBtuS     // Btu/s → hp
	HpPerRpm    = 5252.11301         // torque [ft lbf] = power [hp] * HpPerRpm / speed [rpm]
	BtuToFtLbf  = 778.169262         // Btu → ft lbf
	Psls        = 14.695948775       // sea-level standard static pressure [psia]
	Tsls        = 518.67             // sea-level standard static temperature [degR]
)
