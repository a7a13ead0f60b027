// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command player is the standalone kiosk player.
//
// It plays one screen's playlist with the local MuPDF backend, shows a
// terminal status view and keeps the current page in a PNG file:
//
//	zled-player play --server https://signage.example.com --screen <id> --output /run/zled/frame.png
package main

func main() {
	Execute()
}
