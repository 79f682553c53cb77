package quality

// Score thresholds. The scorer is a coarse byte-level heuristic, not real
// vision analysis: it only guesses whether a photo is worth sending to the
// vision service. Given the same bytes it always produces the same score.
const (
	baselineScore = 50

	largeSizeBytes = 110 * 1024
	smallSizeBytes = 24 * 1024
	sizeBonus      = 15
	sizePenalty    = 15

	sampleTarget = 8192

	highVariance    = 4500.0
	lowVariance     = 1100.0
	varianceBonus   = 20
	variancePenalty = 15

	darkMean        = 50.0
	brightMean      = 200.0
	exposurePenalty = 10
	goodMeanLow     = 90.0
	goodMeanHigh    = 180.0
	exposureBonus   = 5
)

// Score rates the usability of an encoded image on a 0-100 scale from
// byte-level statistics alone: payload size, sampled byte variance
// (detail/contrast proxy) and sampled byte mean (exposure proxy).
func Score(data []byte) int {
	score := baselineScore

	switch {
	case len(data) > largeSizeBytes:
		score += sizeBonus
	case len(data) < smallSizeBytes:
		score -= sizePenalty
	}

	if len(data) > 0 {
		mean, variance := sampleStats(data)

		switch {
		case variance > highVariance:
			score += varianceBonus
		case variance < lowVariance:
			score -= variancePenalty
		}

		switch {
		case mean < darkMean || mean > brightMean:
			score -= exposurePenalty
		case mean >= goodMeanLow && mean <= goodMeanHigh:
			score += exposureBonus
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// sampleStats computes mean and variance over up to sampleTarget evenly
// strided bytes.
func sampleStats(data []byte) (mean, variance float64) {
	stride := len(data) / sampleTarget
	if stride < 1 {
		stride = 1
	}

	var sum, sumSq float64
	count := 0
	for i := 0; i < len(data); i += stride {
		v := float64(data[i])
		sum += v
		sumSq += v * v
		count++
	}

	mean = sum / float64(count)
	variance = sumSq/float64(count) - mean*mean
	return mean, variance
}
