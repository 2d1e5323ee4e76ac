// Package render provides pure helpers used while building the document tree.
//
// # Structure Organization
//
//   - units.go: Length, unit constructors (Inches, Pt, Cm, Twips), length
//     parsing for content plans, page sizes and font-size conversions
//   - helpers.go: run merging for paragraphs built from many RunSpecs
//
// # Design Principles
//
// Pure Functions: nothing here keeps state or calls back into the compose
// package. The package imports the xml node types but is imported by compose,
// never the other way round.
//
// # Usage
//
//	width := render.Inches(1.5)
//	gridCol := width.Twips() // 2160
//
//	render.MergeConsecutiveRuns(para)
package render
