// Package refresh drives the GPIO status view.
//
// A Controller fetches the status payload, checks the header geometry,
// applies the view options and hands finished tables to a Target. The last
// good payload is kept as a backup so option changes can rebuild the tables
// without another round trip. Static data (board facts and the alternate
// function table) is requested and rendered once per controller.
//
// Board is an in-memory Target holding the tables and labels per region. It
// renders them as HTML fragments and is read by the terminal surfaces.
package refresh
