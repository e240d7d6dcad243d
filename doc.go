// Package stocks tracks a portfolio of listed stocks and computes the
// reports its owner looks at every day.
//
// The package is organized around two parts:
//   - Holdings: a mapping from a stock symbol to the quantity held and the
//     amount invested in it. Holdings are loaded from and saved to CSV or
//     JSON files and modified by buy, sell, delete and replace operations.
//   - Metrics: pure functions computing derived values from the holdings
//     and price series supplied by a Market (average cost, current value,
//     percentage variations, beta versus a benchmark index, descriptive
//     statistics, correlation, linear regression forecast, future value,
//     Sharpe ratio and market capitalization).
//
// Reports combine both and are turned into Tables, the common shape for
// terminal rendering and spreadsheet export. Values keep full precision
// until a Table is produced, where currencies and percentages are rounded
// to two decimals.
//
// This package serves as the foundational logic for the `stk`
// command-line tool.
package stocks
