// crypto package provides the cryptographic functions used to sign and verify wallet passes.
//
// these are low level functions - to write or read a .pkpass archive you will not need to call them directly.
// See the pkpass package for high level functions.
package crypto
