package evaluation

// HitAtK reports whether any ground-truth file appears within the first k
// suspicious files.
func HitAtK(b *BugRecord, k int) bool {
	if k > len(b.SuspiciousFiles) {
		k = len(b.SuspiciousFiles)
	}
	for i := 0; i < k; i++ {
		if b.IsFixed(b.SuspiciousFiles[i]) {
			return true
		}
	}
	return false
}

// ReciprocalRank returns 1/(i+1) for the first hit within the cutoff prefix
// of the ranked list, or 0 when no hit occurs.
func ReciprocalRank(b *BugRecord, cutoff int) float64 {
	if cutoff > len(b.SuspiciousFiles) {
		cutoff = len(b.SuspiciousFiles)
	}
	for i := 0; i < cutoff; i++ {
		if b.IsFixed(b.SuspiciousFiles[i]) {
			return 1.0 / float64(i+1)
		}
	}
	return 0
}

// AveragePrecision returns the bug's average precision over the cutoff
// prefix. The divisor is the ground-truth size, not the hit count, so files
// ranked below the cutoff count against the score.
func AveragePrecision(b *BugRecord, cutoff int) float64 {
	if len(b.FixedFiles) == 0 {
		return 0
	}

	if cutoff > len(b.SuspiciousFiles) {
		cutoff = len(b.SuspiciousFiles)
	}

	relevant := 0
	sumPrecision := 0.0
	for i := 0; i < cutoff; i++ {
		if b.IsFixed(b.SuspiciousFiles[i]) {
			relevant++
			sumPrecision += float64(relevant) / float64(i+1)
		}
	}

	return sumPrecision / float64(len(b.FixedFiles))
}
