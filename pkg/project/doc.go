// Package project reads and writes RayTone project files.
//
// # Layout
//
// A project is a JSON document with the .rt extension stored in a project
// directory next to an Assets folder:
//
//	Song_RayToneProject/
//	├── Song.rt
//	└── Assets/
//	    ├── kick.wav
//	    └── cover.png
//
// Saving "Song.rt" creates "Song_RayToneProject/" beside it, unless the
// file already exists, in which case the file's own directory is reused.
// Every asset referenced by a unit is copied into Assets/ and the project
// file stores only its bare file name. Loading re-roots those names under
// the project's Assets/ directory.
//
// # Format
//
// The document is a [snapshot.Snapshot]:
//
//	{
//	  "version": 1,
//	  "units": [
//	    {"type": "control", "id": 0, "key": "Number", "location": {"x": 0, "y": 0, "z": 0},
//	     "meta": {"number": "440"}},
//	    {"type": "voice", "id": 0, "key": "osc/sine", "location": {"x": 2, "y": 0, "z": 0},
//	     "inlets": [0, -1]}
//	  ]
//	}
//
// Connections are record indices, so a file can be loaded into a patch that
// already holds units.
//
// # Writes
//
// [Export] writes to a temporary file in the destination directory, syncs
// it and renames it into place, so a crash never leaves a truncated
// project behind. The periodic autosave uses the same path through
// [AutoSave].
package project
