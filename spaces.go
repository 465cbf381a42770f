package ccm

// Concrete RGB working spaces, grounded on original_source's concrete
// ColorSpace subclasses (colorspace.cpp: sRGB_, AdobeRGB_, WideGamutRGB_,
// ProPhotoRGB_, DCI_P3_RGB_, AppleRGB_, REC_709_RGB_, REC_2020_RGB_),
// each registering a linear/nonlinear pair at package init(), replacing
// the original's ColorSpaceInitial global-constructor pairing per
// DESIGN.md/SPEC_FULL.md §4.D.

func init() {
	must := func(err error) {
		if err != nil {
			panic(err)
		}
	}

	must(newRGBSpacePair("sRGB", D65_2,
		[6]float64{0.6400, 0.3300, 0.3000, 0.6000, 0.1500, 0.0600},
		sRGBToneCurve(0.055, 2.4)))

	must(newRGBSpacePair("AdobeRGB", D65_2,
		[6]float64{0.6400, 0.3300, 0.2100, 0.7100, 0.1500, 0.0600},
		gammaToneCurve(2.19921875)))

	must(newRGBSpacePair("WideGamutRGB", D50_2,
		[6]float64{0.7347, 0.2653, 0.1152, 0.8264, 0.1566, 0.0177},
		gammaToneCurve(2.19921875)))

	must(newRGBSpacePair("ProPhotoRGB", D50_2,
		[6]float64{0.7347, 0.2653, 0.1596, 0.8404, 0.0366, 0.0001},
		gammaToneCurve(1.8)))

	must(newRGBSpacePair("DCI_P3_RGB", D65_2,
		[6]float64{0.6800, 0.3200, 0.2650, 0.6900, 0.1500, 0.0600},
		gammaToneCurve(2.6)))

	must(newRGBSpacePair("AppleRGB", D65_2,
		[6]float64{0.6250, 0.3400, 0.2800, 0.5950, 0.1550, 0.0700},
		gammaToneCurve(1.8)))

	must(newRGBSpacePair("REC_709_RGB", D65_2,
		[6]float64{0.6400, 0.3300, 0.3000, 0.6000, 0.1500, 0.0600},
		sRGBToneCurve(0.099, 1.0/0.45)))

	must(newRGBSpacePair("REC_2020_RGB", D65_2,
		[6]float64{0.7080, 0.2920, 0.1700, 0.7970, 0.1310, 0.0460},
		sRGBToneCurve(0.09929682680944, 1.0/0.45)))
}
