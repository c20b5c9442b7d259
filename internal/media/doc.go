// Package media handles everything that happens to media bytes after they
// are fetched: routing to the right destination folder and, for platform
// videos, muxing the separately hosted audio stream into the final file.
//
// # Storage Router
//
// Router maps a file name to one of three destination subfolders under
// <download_root>/<subreddit>/:
//
//	router := media.NewRouter("/downloads", "pics")
//	dest, err := router.Dest("abc123.mp4") // /downloads/pics/videos/abc123.mp4
//
// Names ending in mp4 go to videos/, gif and gifv to gifs/, everything else
// to images/.
//
// # Media Merger
//
// Merger combines a video-only stream with its companion audio stream via
// an external ffmpeg process, copying codecs without re-encoding:
//
//	merger := media.NewMerger(router)
//	err := merger.Merge(ctx, "abc123.mp4", videoBytes, audioBytes)
//
// When ffmpeg fails (commonly because the video has no audio track at all)
// the raw video bytes are stored as-is instead. Temp files are removed on
// both paths.
package media
