// Package report renders journaled runs for people.
//
// Two renderings exist:
//
//   - Console: PrintRuns, PrintRun and PrintDifferences write colored text
//     (fatih/color). Colors are dropped when the output is not a terminal.
//   - Workbook: WriteWorkbook produces an xlsx file (excelize) with a "Runs"
//     sheet and a "Steps" sheet, one row per journaled step, so failures can
//     be filtered and shared.
package report
