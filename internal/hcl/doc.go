// Package hcl loads suite manifests written in HCL into manifest records.
//
// A suite is described by top-level blocks, each labeled with the entity
// identifier:
//
//	suite "jvmci" { mx_version = "5.190.1" }
//	library "mx:JUNIT" { urls = ["https://..."] sha1 = "..." }
//	project "jdk.vm.ci.runtime" { dependencies = ["jdk.vm.ci.common"] }
//	distribution "JVMCI_API" { dependencies = ["jdk.vm.ci.runtime"] }
//
// List attributes accept either a list of strings or a single string.
package hcl
