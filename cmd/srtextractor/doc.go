// Command srtextractor extracts subtitle tracks from video containers,
// recognizes image-based tracks with tesseract, and corrects recurring OCR
// errors in the resulting SRT files.
package main
