package models

import (
	"image"
)

// Slice represents a single input image plane with metadata
type Slice struct {
	// Image is the actual slice image data
	Image image.Image

	// Index is the position of this slice in the sequence
	Index int

	// Filename is the original filename of the slice
	Filename string
}

// Report is the summary written after a pipeline run
type Report struct {
	// Source is the directory the slices were read from
	Source string `yaml:"source"`

	// Width, Height, Depth are the dimensions of the scene in voxels
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	Depth  int `yaml:"depth"`

	Objects    []ObjectSummary  `yaml:"objects"`
	Clusters   []ClusterSummary `yaml:"clusters"`
	Statistics Statistics       `yaml:"statistics"`
}

// ObjectSummary describes one connected object and its outline
type ObjectSummary struct {
	ID      int `yaml:"id"`
	Cluster int `yaml:"cluster"`

	// Corner and Extent give the bounding box as (x, y, z)
	Corner [3]int `yaml:"corner,flow"`
	Extent [3]int `yaml:"extent,flow"`

	Voxels        int        `yaml:"voxels"`
	OutlineVoxels int        `yaml:"outlineVoxels"`
	Centroid      [3]float64 `yaml:"centroid,flow"`

	// PrincipalVariances are the covariance eigenvalues of the voxel positions, largest first
	PrincipalVariances [3]float64 `yaml:"principalVariances,flow"`

	// NearestObject is the object with the closest centroid, or -1 if there is none
	NearestObject   int     `yaml:"nearestObject"`
	NearestDistance float64 `yaml:"nearestDistance"`

	Contours []ContourSummary `yaml:"contours,omitempty"`
}

// ContourSummary describes one traversed contour in a z-plane
type ContourSummary struct {
	Z      int  `yaml:"z"`
	Points int  `yaml:"points"`
	Closed bool `yaml:"closed"`
}

// ClusterSummary describes a group of objects that touch once dilated
type ClusterSummary struct {
	ID       int        `yaml:"id"`
	Members  []int      `yaml:"members,flow"`
	Voxels   int        `yaml:"voxels"`
	Centroid [3]float64 `yaml:"centroid,flow"`
}

// Statistics summarises object sizes over the whole scene
type Statistics struct {
	Objects       int     `yaml:"objects"`
	Clusters      int     `yaml:"clusters"`
	TotalVoxels   int     `yaml:"totalVoxels"`
	MeanVoxels    float64 `yaml:"meanVoxels"`
	StdDevVoxels  float64 `yaml:"stdDevVoxels"`
	MedianVoxels  float64 `yaml:"medianVoxels"`
	OutlineVoxels int     `yaml:"outlineVoxels"`

	// ClosedContours and OpenContours count traversed contours over all planes
	ClosedContours int `yaml:"closedContours"`
	OpenContours   int `yaml:"openContours"`
}
