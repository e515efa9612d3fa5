// Package bloomtree plays a scripted, multi-stage procedural animation: a
// seed shrinks and falls, a recursive Bézier tree grows out of the ground,
// its heart-shaped canopy fills with blooms, the composition slides aside,
// the backdrop is baked and a letter types itself out while stars drift
// across the scene forever.
//
// # Quick start
//
// The simplest way to watch the show is [Run], which opens a window and
// drives everything from the ebiten game loop:
//
//	if err := bloomtree.Run(bloomtree.DefaultConfig(), bloomtree.RunConfig{
//		Title: "bloomtree",
//	}); err != nil {
//		log.Fatal(err)
//	}
//
// For offscreen rendering build a [Show] and drive it with a [TestRunner]
// or your own [Scheduler]:
//
//	show, err := bloomtree.NewShow(cfg)
//	// ...
//	err = show.Sequencer.Run(ctx, &bloomtree.VirtualScheduler{})
//
// # Drawing surface
//
// All geometry is painted through the [Surface] interface. [Canvas] is the
// software implementation: a premultiplied *image.RGBA rasterized with
// golang.org/x/image/vector. It supports pixel read-back, which the seed uses
// for hit testing and the tree uses for named snapshots.
//
// # Stages
//
// The [Sequencer] is a strictly sequential state machine. Every stage is a
// loop of "perform one tick, then suspend for a fixed delay" that exits once
// its component reports completion:
//
//	AwaitTrigger → ShrinkSeed → RiseSeed → GrowTree → BloomFlowers →
//	SlideComposition → FadeBackground → RevealText → JumpLoop
//
// JumpLoop never exits. Suspension goes through a [Scheduler]:
// [FrameScheduler] runs the sequencer in lockstep with ebiten's Update, and
// [VirtualScheduler] advances a virtual clock for tests and headless renders.
//
// # Configuration
//
// [DefaultConfig] returns the embedded YAML configuration; [LoadConfig]
// overlays a user file on top of it.
package bloomtree
