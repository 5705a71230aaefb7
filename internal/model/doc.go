// Package model provides the stand-in classifier the tracking check trains
// and the MLmodel manifest writer used when logging model artifacts.
//
// The classifier exists only so the smoke run has something real to log:
// a nearest-centroid model fit on synthetic two-class data, evaluated on a
// holdout split for accuracy and weighted F1. Nothing here aspires to be an
// ML library; the remote tracking server is the thing under test.
package model
