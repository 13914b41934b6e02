// Command rawsort sorts photos into a directory layout built from their EXIF
// capture metadata.
//
// The default command plans a cycle for the INPUT directory, prompts for
// confirmation, and moves files into the paths produced by the output
// template. Supporting commands list tokens, manage the configuration file,
// and show the run history recorded in the manifest.
package main
