// Package tesseract invokes the tesseract OCR engine for single subtitle
// frames: the bitmap is flattened to ink-on-paper grayscale, written to a
// scratch PNG, recognized with a page segmentation mode suited to one uniform
// text block, and the scratch files are removed on every exit path.
package tesseract
