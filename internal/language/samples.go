package language

const (
	pythonSample = `print("Hello Python")`

	javascriptSample = `console.log("Hello JavaScript")`

	goSample = `package main
import ("fmt")

func main() {
  fmt.Println("Hello Go!")
}`

	phpSample = `echo "Hello php";`

	rustSample = `fn main() { 
println!("Hello Rust");
}`

	cppSample = `#include <iostream>
using namespace std;
int main() {
    cout << "Hello CPP" << endl;
return 0;
}`

	swiftSample = `print("Hello, World!")`
)
