// Package meanshift implements mean-shift clustering: a mode-seeking,
// density-based method that does not need the number of clusters up front.
//
// Every seed is moved repeatedly to the mean of the points within a flat
// kernel of radius Bandwidth until it stops moving. The resulting modes are
// merged by non-maximum suppression (the best-supported mode wins, and any
// mode within one bandwidth of it is dropped), and every point is labelled
// with its nearest surviving mode.
//
// Basic usage:
//
//	cfg := meanshift.DefaultConfig()
//	cfg.Bandwidth = 1.2 // 0 estimates it from the data
//	result, err := meanshift.Cluster(data, cfg)
//	// result.ClusterCenters[c] is the mode of cluster c
//	// result.Labels[i] is the cluster ID for point i
//
// For a fit/predict split use the estimator:
//
//	ms := meanshift.New(cfg)
//	if err := ms.Fit(train); err != nil { ... }
//	labels, err := ms.Predict(points)
//
// # Seeding
//
// By default every distinct point is a seed. Config.BinSeeding instead
// buckets points onto a grid with cell size Bandwidth and seeds once per
// cell holding at least Config.MinBinFreq points (see GetBinSeeds), which
// is much cheaper on large inputs.
//
// # Bandwidth
//
// EstimateBandwidth averages, over a random sample, the distance from each
// sampled point to its k-th nearest neighbor, k = floor(quantile * n).
package meanshift
