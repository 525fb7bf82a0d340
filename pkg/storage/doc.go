// Package storage writes downloaded card images to the output directory.
//
// Files are written to a temporary file in the same directory and renamed
// into place, so an interrupted or failed write never leaves a truncated
// image. Existing files are overwritten.
//
//	manager, err := storage.NewManager("./public/assets/cards", ".png")
//	if err != nil {
//	    return err
//	}
//	if manager.Created() {
//	    fmt.Println("created output directory")
//	}
//	err = manager.Save("knight-ev1", body) // ./public/assets/cards/knight-ev1.png
package storage
